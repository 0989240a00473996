package dreamlethe

import "testing"

func TestRender(t *testing.T) {
	res := &AssignResult{
		Groups:     [][]string{{"Libai", "Dufu"}, {"Han Wu"}, {}},
		Capacities: []int{3, 6, 6},
		Score:      1,
	}

	want := "House 1 (2/3): Libai, Dufu\n" +
		"House 2 (1/6): Han Wu\n" +
		"House 3 (0/6): (empty)\n" +
		"Total connections: 1\n"
	if got := Render(res); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderDroppedAndUnknown(t *testing.T) {
	res := &AssignResult{
		Groups:     [][]string{{"Libai"}},
		Capacities: []int{1},
		Score:      0,
		Dropped:    2,
		Unknown:    []string{"Ghost", "Phantom"},
	}

	want := "House 1 (1/1): Libai\n" +
		"Total connections: 0\n" +
		"Left out by capacity: 2\n" +
		"Unknown names: Ghost, Phantom\n"
	if got := Render(res); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
