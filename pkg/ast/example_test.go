package ast_test

import (
	"fmt"

	"github.com/matzehuels/astviz/pkg/ast"
)

func ExampleDeserializeString() {
	root, err := ast.DeserializeString(`{
		"$type": "Model",
		"items": [{"$type": "Item", "name": "a"}, {"$type": "Item", "name": "b"}],
		"selected": {"$ref": "#/items@1"}
	}`)
	if err != nil {
		panic(err)
	}

	target := root.Reference("selected").Ref
	name, _ := target.String("name")
	fmt.Println(name, target.ContainerProperty, target.ContainerIndex)
	// Output: b items 1
}

func ExampleResolve() {
	root := ast.NewNode("Root",
		ast.Prop("states", ast.Nodes(ast.NewNode("Off"), ast.NewNode("On"))),
	)
	ast.LinkAST(root)

	fmt.Println(ast.Resolve(root, "#/states@1").Type)
	fmt.Println(ast.Resolve(root, "#/states@9") == nil)
	// Output:
	// On
	// true
}

func ExamplePathOf() {
	root := ast.NewNode("Root",
		ast.Prop("states", ast.Nodes(ast.NewNode("Off"), ast.NewNode("On"))),
	)
	ast.LinkAST(root)

	fmt.Println(ast.PathOf(root.Children("states")[1]))
	// Output: #/states@1
}

func ExampleCollectReferences() {
	root, _ := ast.DeserializeString(`{
		"$type": "A",
		"child": {"$type": "B", "r": {"$ref": "#/child"}},
		"r": {"$ref": "#"}
	}`)
	for _, r := range ast.CollectReferences(root) {
		fmt.Println(r.Path, r.Ref.Type)
	}
	// Output:
	// #/child B
	// # A
}
