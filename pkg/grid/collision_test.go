package grid

import "testing"

func TestCollides(t *testing.T) {
	tests := []struct {
		name string
		a, b Item
		want bool
	}{
		{"Overlap", Item{ID: "a", X: 0, Y: 0, W: 2, H: 2}, Item{ID: "b", X: 1, Y: 1, W: 2, H: 2}, true},
		{"Contained", Item{ID: "a", X: 0, Y: 0, W: 4, H: 4}, Item{ID: "b", X: 1, Y: 1, W: 1, H: 1}, true},
		{"TouchingRight", Item{ID: "a", X: 0, Y: 0, W: 2, H: 1}, Item{ID: "b", X: 2, Y: 0, W: 2, H: 1}, false},
		{"TouchingBelow", Item{ID: "a", X: 0, Y: 0, W: 2, H: 1}, Item{ID: "b", X: 0, Y: 1, W: 2, H: 1}, false},
		{"Disjoint", Item{ID: "a", X: 0, Y: 0, W: 1, H: 1}, Item{ID: "b", X: 5, Y: 5, W: 1, H: 1}, false},
		{"SameID", Item{ID: "a", X: 0, Y: 0, W: 2, H: 2}, Item{ID: "a", X: 0, Y: 0, W: 2, H: 2}, false},
		{"ColumnOverlapOnly", Item{ID: "a", X: 0, Y: 0, W: 2, H: 1}, Item{ID: "b", X: 1, Y: 3, W: 2, H: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collides(&tt.a, &tt.b); got != tt.want {
				t.Errorf("Collides(a, b) = %v, want %v", got, tt.want)
			}
			if got := Collides(&tt.b, &tt.a); got != tt.want {
				t.Errorf("Collides(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirstCollision(t *testing.T) {
	l := Layout{
		{ID: "a", X: 0, Y: 0, W: 2, H: 1},
		{ID: "b", X: 2, Y: 0, W: 2, H: 1},
		{ID: "c", X: 0, Y: 1, W: 4, H: 1},
	}

	probe := &Item{ID: "p", X: 1, Y: 0, W: 2, H: 2}
	if got := FirstCollision(l, probe); got == nil || got.ID != "a" {
		t.Errorf("FirstCollision = %v, want a", got)
	}

	all := AllCollisions(l, probe)
	if len(all) != 3 {
		t.Fatalf("AllCollisions = %d items, want 3", len(all))
	}
	for i, id := range []string{"a", "b", "c"} {
		if all[i].ID != id {
			t.Errorf("AllCollisions[%d] = %s, want %s", i, all[i].ID, id)
		}
	}

	if got := FirstCollision(l, l[0]); got != nil {
		t.Errorf("FirstCollision(self) = %s, want nil", got.ID)
	}
	if got := AllCollisions(l, &Item{ID: "q", X: 0, Y: 5, W: 1, H: 1}); len(got) != 0 {
		t.Errorf("AllCollisions(free) = %d items, want 0", len(got))
	}
}
