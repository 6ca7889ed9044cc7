package query_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/ast"
	"github.com/creachadair/jdoc/internal/render"
	"github.com/creachadair/jdoc/query"
)

func Example_path() {
	root, err := jdoc.Parse([]byte(`[{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]`))
	if err != nil {
		log.Fatalf("Parse: %v", err)
	}
	v, err := query.Eval(root, query.Path(1, "c", "d"))
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	fmt.Println(render.JSON(v))
	// Output:
	// true
}

func Example_documents() {
	docs, err := jdoc.ReadDocuments(strings.NewReader(`
{"firstName": "Ada", "age": 36, "phones": ["555-0100", "555-0101"]}
{"firstName": "Alan", "age": 41, "phones": []}
{"firstName": "Grace", "age": 85, "phones": ["555-0101"]}
`))
	if err != nil {
		log.Fatalf("ReadDocuments: %v", err)
	}

	// Print the first name of everyone reachable at 555-0101.
	sel := query.Where(
		query.Matches(ast.String("555-0101"), "phones"),
		query.Path("firstName"),
	)
	for _, doc := range docs {
		if v, err := query.Eval(doc, sel); err == nil {
			fmt.Println(string(v.(ast.String)))
		}
	}
	// Output:
	// Ada
	// Grace
}
