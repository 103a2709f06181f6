package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/jeeace/jeeace/internal/screen"
)

type fakeScreen struct {
	name    string
	started int
	closed  int
	got     []tea.Msg
}

func (f *fakeScreen) Init() tea.Cmd { f.started++; return nil }
func (f *fakeScreen) Close()        { f.closed++ }
func (f *fakeScreen) Title() string { return f.name }
func (f *fakeScreen) View(int, int) string {
	return "view:" + f.name
}
func (f *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	f.got = append(f.got, msg)
	return f, nil
}

func titles(r *Router) []string {
	out := make([]string, 0, r.Depth())
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want []string
	}{
		{"push", []tea.Msg{PushScreenMsg{&fakeScreen{name: "b"}}}, []string{"a", "b"}},
		{"push then pop", []tea.Msg{PushScreenMsg{&fakeScreen{name: "b"}}, PopScreenMsg{}}, []string{"a"}},
		{"pop keeps root", []tea.Msg{PopScreenMsg{}, PopScreenMsg{}}, []string{"a"}},
		{"replace root", []tea.Msg{ReplaceScreenMsg{&fakeScreen{name: "b"}}}, []string{"b"}},
		{
			"replace keeps depth",
			[]tea.Msg{PushScreenMsg{&fakeScreen{name: "b"}}, ReplaceScreenMsg{&fakeScreen{name: "c"}}},
			[]string{"a", "c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&fakeScreen{name: "a"})
			for _, m := range tt.msgs {
				r.Update(m)
			}
			if got := titles(r); !equal(got, tt.want) {
				t.Errorf("stack = %v, want %v", got, tt.want)
			}
			if r.Active().Title() != tt.want[len(tt.want)-1] {
				t.Errorf("active = %q", r.Active().Title())
			}
		})
	}
}

func TestLifecycle(t *testing.T) {
	root := &fakeScreen{name: "test"}
	r := New(root)

	res := &fakeScreen{name: "results"}
	r.Update(ReplaceScreenMsg{Screen: res})
	if root.closed != 1 || res.started != 1 {
		t.Fatalf("root closed %d, results started %d", root.closed, res.started)
	}

	detail := &fakeScreen{name: "detail"}
	r.Push(detail)
	r.Pop()
	if detail.started != 1 || detail.closed != 1 {
		t.Errorf("detail started %d closed %d", detail.started, detail.closed)
	}

	r.Close()
	if res.closed != 1 {
		t.Errorf("results closed %d times", res.closed)
	}
}

func TestForwardsToActive(t *testing.T) {
	bottom := &fakeScreen{name: "bottom"}
	top := &fakeScreen{name: "top"}
	r := New(bottom)
	r.Push(top)

	r.Update(tea.WindowSizeMsg{Width: 80})

	if len(top.got) != 1 || len(bottom.got) != 0 {
		t.Errorf("top got %d, bottom got %d", len(top.got), len(bottom.got))
	}
	if v := r.View(80, 24); v != "view:top" {
		t.Errorf("view = %q", v)
	}
}
