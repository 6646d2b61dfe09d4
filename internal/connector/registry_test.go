package connector

import "testing"

func TestRegistry(t *testing.T) {
	sats := NewSatsConnectConnector(Options{ID: "xverse"})
	okx := NewOKXConnector(Options{ID: "okx"})

	r, err := NewRegistry(sats, okx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, ok := r.Find("okx")
	if !ok || c != okx {
		t.Errorf("expected okx connector, got %v", c)
	}

	if _, ok := r.Find("unknown"); ok {
		t.Error("expected miss for unknown id")
	}

	if err := r.Add(NewLeatherConnector(Options{ID: "okx"})); err == nil {
		t.Error("expected duplicate id error")
	}

	if err := r.Add(NewLeatherConnector(Options{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := r.All()
	if len(all) != 3 || r.Len() != 3 {
		t.Fatalf("expected 3 connectors, got %d", len(all))
	}
	if all[0].ID() != "xverse" || all[2].ID() != TypeLeather {
		t.Errorf("expected registration order, got %s..%s", all[0].ID(), all[2].ID())
	}
}

func TestNew(t *testing.T) {
	for _, kind := range []string{TypeSatsConnect, TypeLeather, TypeOKX} {
		c, err := New(kind, Options{})
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", kind, err)
		}
		if c.Type() != kind {
			t.Errorf("expected type %s, got %s", kind, c.Type())
		}
	}

	if _, err := New("unisat", Options{}); err == nil {
		t.Error("expected error for unknown type")
	}
}
