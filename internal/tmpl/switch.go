package tmpl

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// SwitchTagName is the tag installed by the switch extension.
const SwitchTagName = "switch"

// switchSubjectKey carries the evaluated subject into case conditions.
const switchSubjectKey = "doxs_switch_subject"

// conditions compiles case conditions. It never loads files.
var conditions = pongo2.NewSet("doxs-switch-conditions", NewMemoryLoader())

type switchCase struct {
	cond *pongo2.Template
	body *pongo2.NodeWrapper
}

type switchNode struct {
	subject  pongo2.IEvaluator
	cases    []switchCase
	fallback *pongo2.NodeWrapper
}

// Execute renders the first case whose values match the subject, or the
// default body when none does.
func (n *switchNode) Execute(ctx *pongo2.ExecutionContext, w pongo2.TemplateWriter) *pongo2.Error {
	subject, perr := n.subject.Evaluate(ctx)
	if perr != nil {
		return perr
	}

	scope := make(pongo2.Context, len(ctx.Public)+len(ctx.Private)+1)
	scope.Update(ctx.Public)
	scope.Update(ctx.Private)
	scope[switchSubjectKey] = subject.Interface()

	for _, c := range n.cases {
		out, err := c.cond.Execute(scope)
		if err != nil {
			return ctx.OrigError(err, nil)
		}
		if out == "1" {
			return c.body.Execute(ctx, w)
		}
	}

	if n.fallback != nil {
		return n.fallback.Execute(ctx, w)
	}
	return nil
}

// ParseSwitch parses
//
//	{% switch expr %}{% case a or b %}...{% default %}...{% endswitch %}
//
// Only whitespace may appear between the switch tag and its first clause.
func ParseSwitch(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	subject, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	if arguments.Remaining() > 0 {
		return nil, arguments.Error("Malformed switch-tag arguments.", nil)
	}

	node := &switchNode{subject: subject}

	for tok := doc.PeekType(pongo2.TokenHTML); tok != nil; tok = doc.PeekType(pongo2.TokenHTML) {
		if strings.TrimSpace(tok.Val) != "" {
			return nil, doc.Error("Only whitespace is allowed between switch and its first case.", tok)
		}
		doc.Consume()
	}
	if doc.Peek(pongo2.TokenSymbol, "{%") == nil {
		return nil, doc.Error("Expected case, default or endswitch.", doc.Current())
	}
	if kw := doc.PeekTypeN(1, pongo2.TokenIdentifier); kw == nil || !isClause(kw.Val) {
		return nil, doc.Error("Expected case, default or endswitch.", doc.Current())
	}

	// Consume the first clause tag. Its wrapper holds only whitespace.
	wrapper, clauseArgs, err := doc.WrapUntilTag("case", "default", "endswitch")
	if err != nil {
		return nil, err
	}

	for {
		clause := wrapper.Endtag
		switch clause {
		case "endswitch":
			if clauseArgs.Remaining() > 0 {
				return nil, clauseArgs.Error("endswitch takes no arguments.", nil)
			}
			return node, nil

		case "default":
			if clauseArgs.Remaining() > 0 {
				return nil, clauseArgs.Error("default takes no arguments.", nil)
			}
			body, next, err := doc.WrapUntilTag("case", "default", "endswitch")
			if err != nil {
				return nil, err
			}
			if next.Remaining() > 0 || body.Endtag != "endswitch" {
				return nil, doc.Error(fmt.Sprintf("Unexpected %s after default, expected endswitch.", body.Endtag), doc.Current())
			}
			node.fallback = body
			return node, nil

		case "case":
			cond, err := parseCaseValues(clauseArgs, start)
			if err != nil {
				return nil, err
			}
			body, next, err := doc.WrapUntilTag("case", "default", "endswitch")
			if err != nil {
				return nil, err
			}
			node.cases = append(node.cases, switchCase{cond: cond, body: body})
			wrapper, clauseArgs = body, next
		}
	}
}

func isClause(name string) bool {
	return name == "case" || name == "default" || name == "endswitch"
}

// parseCaseValues splits the case arguments on the "or" keyword and
// compiles them into one condition template that prints 1 on a match.
func parseCaseValues(args *pongo2.Parser, start *pongo2.Token) (*pongo2.Template, *pongo2.Error) {
	var (
		values  []string
		current []string
		first   *pongo2.Token
	)

	for args.Remaining() > 0 {
		tok := args.Current()
		if first == nil {
			first = tok
		}
		args.Consume()

		if tok.Typ == pongo2.TokenKeyword && tok.Val == "or" {
			if len(current) == 0 {
				return nil, args.Error("Expected a case value before 'or'.", tok)
			}
			values = append(values, strings.Join(current, " "))
			current = nil
			continue
		}
		current = append(current, tokenSource(tok))
	}

	if first == nil {
		first = start
	}
	if len(current) == 0 {
		return nil, args.Error("case requires at least one value.", first)
	}
	values = append(values, strings.Join(current, " "))

	tests := make([]string, len(values))
	for i, v := range values {
		tests[i] = switchSubjectKey + " == (" + v + ")"
	}
	src := "{% if " + strings.Join(tests, " or ") + " %}1{% endif %}"

	cond, err := conditions.FromString(src)
	if err != nil {
		return nil, args.Error(fmt.Sprintf("Invalid case value: %v", err), first)
	}
	return cond, nil
}

// tokenSource turns a lexed token back into expression source.
func tokenSource(tok *pongo2.Token) string {
	if tok.Typ != pongo2.TokenString {
		return tok.Val
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(tok.Val) + `"`
}

var _ pongo2.INodeTag = (*switchNode)(nil)
