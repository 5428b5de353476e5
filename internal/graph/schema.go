package graph

// Schema is the GraphQL SDL served by this API. Connections follow the Relay
// cursor spec with an extra totalCount.
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	type Query {
		node(id: ID!): Node

		"List of authors. Returns first 10 nodes if pagination is not specified."
		authors(first: Int, after: String, sort: AuthorSort! = LAST_NAME, reversed: Boolean! = false): AuthorConnection!

		"Fulltext search in reports. Returns first 10 nodes if pagination is not specified."
		searchReports(query: String! = "", first: Int, after: String, highlight: Boolean! = false, sort: ReportSort! = DATE, reversed: Boolean! = false): ReportConnection!

		"Active user viewing the API."
		viewer: User

		"Shortcuts for login. Use with the loginByShortcut mutation."
		loginShortcuts: [LoginShortcut!]!

		"Saved report drafts of the viewer."
		reportDrafts: [Report!]!
	}

	type Mutation {
		"Start a login against an arbitrary OpenID provider."
		login(openidUid: String!, redirectUri: String!): LoginRedirect!

		"Start a login using a configured shortcut provider."
		loginByShortcut(shortcutId: ID!, redirectUri: String!): LoginRedirect!
	}

	"An object with a globally unique identifier."
	interface Node {
		id: ID!
	}

	scalar JSON

	"Sort key for author listings."
	enum AuthorSort {
		LAST_NAME
		TOTAL_REPORTS
	}

	"Sort key for report search. RELEVANCE requires a query."
	enum ReportSort {
		DATE
		PUBLISHED
		RELEVANCE
	}

	type PageInfo {
		hasNextPage: Boolean!
		hasPreviousPage: Boolean!
		startCursor: String
		endCursor: String
	}

	type Author implements Node {
		id: ID!
		firstName: String!
		lastName: String!
		"Count of published reports. Only available in listing context."
		totalReports: Int
		extra: JSON
		reports(first: Int, after: String): ReportConnection!
	}

	type AuthorEdge {
		node: Author!
		cursor: String!
	}

	type AuthorConnection {
		totalCount: Int!
		edges: [AuthorEdge!]!
		pageInfo: PageInfo!
	}

	type Report implements Node {
		id: ID!
		author: Author
		date: String!
		published: String!
		title: String!
		body: String!
		receivedBenefit: String!
		providedBenefit: String!
		ourParticipants: String!
		otherParticipants: String!
		extra: JSON
	}

	type ReportEdge {
		node: Report!
		cursor: String!
	}

	type ReportConnection {
		totalCount: Int!
		edges: [ReportEdge!]!
		pageInfo: PageInfo!
	}

	type User implements Node {
		id: ID!
		openidUid: String!
		firstName: String!
		lastName: String!
		email: String!
		isAuthor: Boolean!
		extra: JSON
	}

	type LoginShortcut implements Node {
		id: ID!
		name: String!
	}

	type LoginRedirect {
		"Provider URL to send the user to."
		authorizationUrl: String!
	}
`
