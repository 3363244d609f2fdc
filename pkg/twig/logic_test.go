package twig

import (
	"errors"
	"testing"
)

func TestCompileLogic(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantKind      LogicKind
		wantCondition string
		wantTarget    string
		wantKey       string
	}{
		{name: "if", text: "if a", wantKind: LogicIf, wantCondition: "a"},
		{name: "if with expression", text: "if count % 2", wantKind: LogicIf, wantCondition: "count 2 %"},
		{name: "elseif", text: "elseif b", wantKind: LogicElseIf, wantCondition: "b"},
		{name: "else", text: "else", wantKind: LogicElse},
		{name: "endif", text: "endif", wantKind: LogicEndIf},
		{name: "for", text: "for item in items", wantKind: LogicFor, wantCondition: "items", wantTarget: "item"},
		{name: "for with key", text: "for k, v in map", wantKind: LogicFor, wantCondition: "map", wantTarget: "v", wantKey: "k"},
		{name: "endfor", text: "endfor", wantKind: LogicEndFor},
		{name: "set", text: "set total = a * 2", wantKind: LogicSet, wantCondition: "a 2 *", wantTarget: "total"},
		{name: "set without spaces", text: "set x=1", wantKind: LogicSet, wantCondition: "1", wantTarget: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, pattern, err := compileLogic(tt.text, 0, testEnv())
			if err != nil {
				t.Fatalf("compileLogic() error = %v", err)
			}
			if tok.Kind != tt.wantKind || pattern.kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", tok.Kind, tt.wantKind)
			}
			if tt.wantCondition == "" {
				if tok.Condition != nil {
					t.Errorf("Condition = %s, want none", tok.Condition)
				}
			} else if tok.Condition == nil || tok.Condition.String() != tt.wantCondition {
				t.Errorf("Condition = %v, want %q", tok.Condition, tt.wantCondition)
			}
			if tok.Target != tt.wantTarget {
				t.Errorf("Target = %q, want %q", tok.Target, tt.wantTarget)
			}
			if tok.KeyTarget != tt.wantKey {
				t.Errorf("KeyTarget = %q, want %q", tok.KeyTarget, tt.wantKey)
			}
			if tok.next != -1 || tok.end != -1 {
				t.Errorf("links = %d/%d, want unlinked", tok.next, tok.end)
			}
		})
	}
}

func TestCompileLogicConditionOffset(t *testing.T) {
	tok, _, err := compileLogic("if  a + b", 10, testEnv())
	if err != nil {
		t.Fatalf("compileLogic() error = %v", err)
	}
	rpn := tok.Condition.Tokens()
	if rpn[0].Offset != 14 || rpn[1].Offset != 18 {
		t.Errorf("operand offsets = %d, %d, want 14, 18", rpn[0].Offset, rpn[1].Offset)
	}
}

func TestCompileLogicErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "unknown tag", text: "bogus", wantErr: ErrUnrecognizedLogicTag},
		{name: "if without condition", text: "if", wantErr: ErrUnrecognizedLogicTag},
		{name: "else with condition", text: "else x", wantErr: ErrUnrecognizedLogicTag},
		{name: "glued keyword", text: "ifx", wantErr: ErrUnrecognizedLogicTag},
		{name: "for without in", text: "for x items", wantErr: ErrUnrecognizedLogicTag},
		{name: "set without value", text: "set x =", wantErr: ErrUnrecognizedLogicTag},
		{name: "bad condition", text: "if a b", wantErr: ErrInvalidAdjacency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := compileLogic(tt.text, 0, testEnv())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("compileLogic() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogicTokenString(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "if a", want: "if(a)"},
		{text: "for k, v in m", want: "for(k, v in m)"},
		{text: "for v in m", want: "for(v in m)"},
		{text: "set x = 1 + 2", want: "set(x = 1 2 +)"},
		{text: "endif", want: "endif"},
	}
	for _, tt := range tests {
		tok, _, err := compileLogic(tt.text, 0, testEnv())
		if err != nil {
			t.Fatalf("compileLogic(%q) error = %v", tt.text, err)
		}
		if got := tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
