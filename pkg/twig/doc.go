// Package twig compiles and renders text templates written in a small subset of
// the Twig template language.
//
// A template is compiled once into a flat list of raw text, output expressions
// and control tags, with every expression already in reverse polish order.
// Rendering walks that list against a Context and never modifies the template,
// so one compiled template can be rendered from many goroutines.
//
// # Quick Start
//
//	tmpl, err := twig.Compile("Hello {{ name|capitalize }}!")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := tmpl.Render(twig.Context{"name": "world"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out) // Hello World!
//
// # Template Syntax
//
// Markers:
//
//	{{ expression }}     - Output the value of an expression
//	{% tag %}            - Control tag
//	{# comment #}        - Dropped at compile time
//
// Expressions:
//
//	{{ 2 + 3 * 4 }}             - Arithmetic: + - * / %
//	{{ (2 + 3) * 4 }}           - Parenthesized sub-expression, one level deep
//	{{ "a" ~ "b" }}             - Concatenation
//	{{ !done }}                 - Negation
//	{{ ok ? "yes" : "no" }}     - Ternary
//	{{ name|upper }}            - Filter
//	{{ items|join(", ") }}      - Filter with an argument
//
// Control Tags:
//
//	{% if x %}...{% elseif y %}...{% else %}...{% endif %}
//	{% for item in items %}...{% endfor %}
//	{% for key, value in map %}...{% endfor %}
//	{% set total = price * qty %}
//
// # Value Semantics
//
// + - / and % read the leading number of each operand's text, so "3px" + 1 is 4
// and "abc" + 1 is NaN. * converts whole values: true is 1, nil and "" are 0.
// ~ joins its operands in pop order, right operand first, unless the engine is
// configured with WithOrderedConcat. Numbers print without a trailing ".0";
// division by zero prints Infinity, modulo by zero NaN.
//
// # Filters
//
// Built-in filters: default, upper, lower, capitalize, title, trim, length,
// abs, round, escape (alias e), raw, join, first, last, reverse, url_encode,
// number_format, format and date. An undefined variable directly in front of
// default is treated as nil:
//
//	{{ missing|default("n/a") }}
//	{{ total|number_format(2) }}       - 1,234.50
//	{{ created|date("Y-m-d H:i") }}    - 2024-01-15 09:05
//
// # Engine and Caching
//
// An Engine shares options between compilations and caches compiled templates
// by source text:
//
//	engine := twig.New(
//	    twig.WithConfig(&twig.Config{CacheMaxSize: 500, CacheTTL: time.Hour}),
//	    twig.WithFilter("shout", shout),
//	)
//	defer engine.Close()
//
//	out, err := engine.Render(source, twig.Context{"name": "world"})
//
// # Error Handling
//
// Compilation fails with a *CompileError, rendering with a *RenderError. Both
// unwrap to one of the Err* kinds:
//
//	if errors.Is(err, twig.ErrUndefinedVariable) {
//	    // ...
//	}
//
// Every stage stops at the first error; a failed render produces no output.
package twig
