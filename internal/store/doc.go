// Package store is the query-execution facility: SQLite tables derived
// from an entity schema, seeded with rows and queried with compiled
// selects.
//
// # Tables
//
// Open creates one table per entity. Columns are the entity's attribute
// columns plus the join columns its relations need (see
// querysql.CreateTable). Dates and times are stored as text in a layout
// whose text order matches time order.
//
// # Executions
//
// Every Find and Count gets an execution id (UUIDv7 by default), is logged
// at Info level, and is appended to the specb_executions table:
//   - ORDER BY seq ASC gives the execution order
//   - the query text and JSON params are kept for inspection
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
