// Package harness runs query scenarios end to end.
//
// A scenario names an entity schema, the rows to seed, the property
// bindings a service would register and a client page request. The
// harness builds the specification and the sort page exactly as a service
// handler would, executes count and find against a fresh in-memory SQLite
// store, and checks the page against the scenario's assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	schema: ../schemas/library    # optional CUE schema directory
//	root: Book
//	fixture: false                # seed the Employee fixture
//	rows:
//	  - entity: Author
//	    values: {id: 1, name: Ursula}
//	bindings:
//	  - property: authorName
//	    attribute: Author.name
//	    path: [Book.author]
//	sort_bindings:
//	  - attribute: Book.pages
//	request:
//	  operations:
//	    - {property: authorName, operator: EQ, value: Ursula}
//	  page: 0
//	  size: 10
//	  sortFields:
//	    - {property: pages, direction: DESC}
//	assertions:
//	  - type: total
//	    count: 2
//	  - type: rows_order
//	    attribute: title
//	    values: ["The Dispossessed", "The Left Hand of Darkness"]
//
// # Assertion Types
//
//   - total: Verifies the number of matching rows across all pages
//   - row_count: Verifies the number of rows on the page
//   - rows_order: Verifies the page's values of one attribute, in order
//   - rows_contain: Verifies some row on the page matches the given values
//
// A scenario with expect_error passes only if building the query fails
// with an error containing that text.
//
// # Deterministic Testing
//
// Execution ids come from testutil.SequenceIDGenerator and every run uses
// its own in-memory database, so snapshots compared with RunWithGolden are
// identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/library_books.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
