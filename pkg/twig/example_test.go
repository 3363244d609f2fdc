package twig_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backflip/gotwig/pkg/twig"
)

func ExampleCompile() {
	tmpl, err := twig.Compile("Hello {{ name|capitalize }}!")
	if err != nil {
		fmt.Println(err)
		return
	}

	out, err := tmpl.Render(twig.Context{"name": "world"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)
	// Output: Hello World!
}

func ExampleTemplate_Render_controlFlow() {
	tmpl := twig.MustCompile(`{% for name, qty in stock %}{{ name }}: {% if qty %}{{ qty }}{% else %}sold out{% endif %}
{% endfor %}`)

	out, err := tmpl.Render(twig.Context{
		"stock": map[string]int{"pears": 0, "apples": 12},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(out)
	// Output:
	// apples: 12
	// pears: sold out
}

func ExampleCompile_error() {
	_, err := twig.Compile("{{ price qty }}")

	var ce *twig.CompileError
	if errors.As(err, &ce) {
		fmt.Println(ce.Line, ce.Column, errors.Is(err, twig.ErrInvalidAdjacency))
	}
	// Output: 1 10 true
}

func ExampleWithFilter() {
	slug := func(value interface{}, args ...interface{}) (interface{}, error) {
		return strings.ReplaceAll(strings.ToLower(twig.FormatValue(value)), " ", "-"), nil
	}

	tmpl := twig.MustCompile("/posts/{{ title|slug }}", twig.WithFilter("slug", slug))
	out, _ := tmpl.Render(twig.Context{"title": "Hello Go World"})
	fmt.Println(out)
	// Output: /posts/hello-go-world
}

func ExampleWithOrderedConcat() {
	source := `{{ "a" ~ "b" }}`

	popOrder, _ := twig.MustCompile(source).Render(nil)
	ordered, _ := twig.MustCompile(source, twig.WithOrderedConcat(true)).Render(nil)
	fmt.Println(popOrder, ordered)
	// Output: ba ab
}

func ExampleEngine() {
	engine := twig.New()
	defer engine.Close()

	for _, n := range []int{1, 2} {
		out, err := engine.Render("{{ n }} * 2 = {{ n * 2 }}", twig.Context{"n": n})
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(out)
	}
	// Output:
	// 1 * 2 = 2
	// 2 * 2 = 4
}
