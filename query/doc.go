// Package query implements the StarQL language: a lexer, a recursive-descent
// parser, a tree-walking evaluator and a batched operator pipeline.
//
// A query is a sequence of statements separated by semicolons. Each
// statement may bind its value to a name, and the value of the last
// statement is the result of the query:
//
//	xs = [1, 2, 3, 4];
//	$xs | filter(where=@ > 2) | first()
//
// The language supports:
//   - Numbers, strings, booleans, homogeneous lists and records
//   - Arithmetic (+ - * /), comparison (< <= > >=), equality (== !=)
//   - Logical and/or on booleans
//   - Variables ($name) defined by earlier statements
//   - Operator pipelines (value | ns.op(arg=expr) | ...)
//
// # Basic Usage
//
// Run a query in a fresh environment:
//
//	v, err := query.Run(`[1, 2, 3] | filter(where=@ != 2)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v) // [1, 3]
//
// Use an Engine to bind input data and keep bindings between runs:
//
//	engine := query.NewEngine(query.WithBatchSize(128))
//	if err := engine.Bind("rows", rows); err != nil {
//	    log.Fatal(err)
//	}
//	v, err := engine.Run(`$rows | take(limit=10)`)
//
// # Operators
//
// Operators are looked up by namespace and name in a Registry. A call
// without a namespace refers to the std namespace. It provides filter,
// first, take, skip, map and count for any list; pluck and project for lists
// of records; sum, avg, min and max for lists of numbers; and sort, reverse
// and distinct. Inside operator arguments, @ is the element being
// processed. Arguments that do not mention @ are evaluated once per stage;
// the others are evaluated for each element in a scope where @ is bound to
// it.
//
// Custom operators implement the Operator interface:
//
//	type twiceOp struct{}
//
//	func (twiceOp) Signature() query.Signature {
//	    return query.Signature{
//	        Namespace: "my",
//	        Name:      "twice",
//	        Input:     query.ListType{Elem: query.AnyType},
//	        Return:    query.ListType{Elem: query.AnyType},
//	    }
//	}
//
//	func (twiceOp) Run(in, out *query.Pipe) error {
//	    for !in.Done() {
//	        rows, err := in.Pull()
//	        if err != nil {
//	            return err
//	        }
//	        for _, row := range rows {
//	            out.Push(row.Elem)
//	            out.Push(row.Elem)
//	        }
//	    }
//	    return nil
//	}
//
// # Errors
//
// Every failure is an *Error whose Kind tells lexing, parsing, scoping,
// typing and operator failures apart:
//
//	if query.IsKind(err, query.TypeError) {
//	    ...
//	}
//
// # Security
//
// Parse enforces limits on query length, token count and expression
// nesting depth (see MaxQueryLength, MaxTokens, MaxExpressionDepth).
package query
