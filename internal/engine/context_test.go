package engine

import (
	"testing"

	"github.com/dshills/kibitz/internal/backend"
	"github.com/dshills/kibitz/internal/host"
	"github.com/dshills/kibitz/internal/logger"
)

func TestContextEqual(t *testing.T) {
	tests := []struct {
		name string
		a    Context
		b    Context
		want bool
	}{
		{name: "both null", a: Context{}, b: Context{}, want: true},
		{name: "null vs offset zero", a: Context{}, b: ContextAt(0), want: false},
		{name: "same offset", a: ContextAt(5), b: ContextAt(5), want: true},
		{name: "different offsets", a: ContextAt(5), b: ContextAt(6), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContextString(t *testing.T) {
	if got := (Context{}).String(); got != "null" {
		t.Errorf("null context String = %q, want %q", got, "null")
	}
	if got := ContextAt(7).String(); got != "@7" {
		t.Errorf("String = %q, want %q", got, "@7")
	}
}

func TestComputeContextFromHost(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     int
		wantNull   bool
		wantOffset int
	}{
		{name: "identifier start", text: "obj.size", cursor: 8, wantOffset: 4},
		{name: "zero width after dot", text: "obj.", cursor: 4, wantOffset: 4},
		{name: "skips trailing newline", text: "name\n", cursor: 5, wantOffset: 0},
		{name: "digit-led token collapses", text: "x + 42", cursor: 6, wantOffset: 6},
		{name: "inside string", text: "s = \"lit", cursor: 8, wantNull: true},
		{name: "inside line comment", text: "// note", cursor: 7, wantNull: true},
		{name: "inside block comment", text: "/* note", cursor: 7, wantNull: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := host.NewTextBuffer(tt.text)
			buf.SetCursor(tt.cursor)
			stub := backend.NewStub()
			defer stub.Close()
			sess := NewSession(buf, stub, WithLogger(logger.Discard()))
			defer sess.Close()

			sess.Update()
			got := sess.Context()
			if tt.wantNull {
				if got.Valid() {
					t.Fatalf("context = %v, want null", got)
				}
				return
			}
			if !got.Valid() || got.Offset() != tt.wantOffset {
				t.Errorf("context = %v, want @%d", got, tt.wantOffset)
			}
		})
	}
}
