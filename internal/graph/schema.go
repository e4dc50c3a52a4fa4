package graph

import (
	graphql "github.com/graph-gophers/graphql-go"
)

const schemaSDL = `
	type Event {
		_id: ID!
		title: String!
		description: String!
		price: Float!
		date: String!
		creator: User!
	}

	type User {
		_id: ID!
		email: String!
		password: String
		createdEvents: [Event!]!
	}

	input EventInput {
		title: String!
		description: String!
		price: Float!
		date: String!
	}

	input UserInput {
		email: String!
		password: String!
	}

	type RootQuery {
		events: [Event!]!
	}

	type RootMutation {
		createEvent(eventInput: EventInput!): Event
		createUser(userInput: UserInput!): User
	}

	schema {
		query: RootQuery
		mutation: RootMutation
	}
`

// NewSchema parses the API schema against r. It panics if the resolvers do
// not match the schema.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, r)
}
