// Package query is the relational query-construction API that compiled
// criteria target.
//
// A query starts at a Root (the queried entity). Relationship steps are
// traversed with From.Join, which returns a new join handle every time it is
// called; callers that must not duplicate joins go through the join graph.
// Paths are typed attribute references on a From, and predicates are built
// from paths with the constructors in predicate.go.
//
//	root  := query.NewRoot(sch, sch.MustEntity("Employee"))
//	phone, _ := root.Join(sch.MustEntity("Employee").MustRelation("phones"))
//	num, _ := phone.Get("number")
//	pred := query.And(query.Equal(num, "5555"))
//
// SEALED INTERFACES:
//
// From and Predicate are sealed with marker methods. Renderers (querysql)
// rely on exhaustive type switches over the types in this package:
//
//	switch p := pred.(type) {
//	case Comparison:
//	case Between:
//	...
//	}
//
// There is deliberately no OR node. Criteria combine by conjunction only;
// an empty Conjunction is the always-true predicate.
package query
