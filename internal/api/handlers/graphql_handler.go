package handlers

import (
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// GraphQLHandler serves the API endpoint and, optionally, the GraphiQL page.
type GraphQLHandler struct {
	api      http.Handler
	graphiql bool
}

// NewGraphQLHandler creates a new GraphQLHandler for schema.
func NewGraphQLHandler(schema *graphql.Schema, graphiql bool) *GraphQLHandler {
	return &GraphQLHandler{api: &relay.Handler{Schema: schema}, graphiql: graphiql}
}

// Query executes a GraphQL request posted as JSON.
func (h *GraphQLHandler) Query(w http.ResponseWriter, r *http.Request) {
	h.api.ServeHTTP(w, r)
}

// GraphiQL serves the schema exploration UI.
func (h *GraphQLHandler) GraphiQL(w http.ResponseWriter, r *http.Request) {
	if !h.graphiql {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(graphiqlPage)
}

var graphiqlPage = []byte(`<!DOCTYPE html>
<html>
<head>
  <title>GraphiQL</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
  <style>body { margin: 0; height: 100vh; } #graphiql { height: 100vh; }</style>
</head>
<body>
  <div id="graphiql">Loading...</div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: window.location.pathname });
    ReactDOM.createRoot(document.getElementById('graphiql'))
      .render(React.createElement(GraphiQL, { fetcher }));
  </script>
</body>
</html>
`)
