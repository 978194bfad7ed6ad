package schedule

import "testing"

func keys(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Key
	}
	return out
}

func TestAgendaOrdersByDueThenSeq(t *testing.T) {
	var a Agenda
	a.Schedule("c", 30)
	a.Schedule("a", 10)
	a.Schedule("b", 10)
	a.Schedule("d", 5)

	got := keys(a.Tasks())
	want := []string{"d", "a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if a.Len() != 4 {
		t.Fatalf("Tasks must not drain the agenda, len = %d", a.Len())
	}
}

func TestAgendaScheduleMovesExistingKey(t *testing.T) {
	var a Agenda
	a.Schedule("x", 10)
	a.Schedule("y", 20)
	moved := a.Schedule("x", 40)

	if a.Len() != 2 {
		t.Fatalf("len = %d, want 2", a.Len())
	}
	if task, _ := a.Get("x"); task != moved || task.Due != 40 {
		t.Fatalf("task = %+v, want %+v", task, moved)
	}
	if first, _ := a.Peek(); first.Key != "y" {
		t.Fatalf("peek = %+v, want y", first)
	}
}

func TestAgendaNextDueAndRemove(t *testing.T) {
	var a Agenda
	a.Schedule("late", 50)
	a.Schedule("soon", 12)

	if _, ok := a.NextDue(11); ok {
		t.Fatal("nothing is due at 11")
	}
	task, ok := a.NextDue(12)
	if !ok || task.Key != "soon" {
		t.Fatalf("next due = %+v, %v", task, ok)
	}
	if !a.Remove("soon") || a.Remove("soon") {
		t.Fatal("remove should succeed exactly once")
	}
	if _, ok := a.Get("soon"); ok {
		t.Fatal("removed task still present")
	}
	if task, _ := a.NextDue(100); task.Key != "late" {
		t.Fatalf("next due = %+v, want late", task)
	}
}

func TestAgendaCloneIsIndependent(t *testing.T) {
	var a Agenda
	a.Schedule("one", 1)
	clone := a.Clone()
	clone.Schedule("two", 2)
	clone.Remove("one")

	if a.Len() != 1 {
		t.Fatalf("original len = %d, want 1", a.Len())
	}
	if _, ok := a.Get("one"); !ok {
		t.Fatal("original lost its task")
	}
	if _, ok := clone.Get("two"); !ok || clone.Len() != 1 {
		t.Fatal("clone did not keep its own task")
	}
	next := clone.Schedule("three", 3)
	if next.Seq <= 2 {
		t.Fatalf("clone seq = %d, want continuation past 2", next.Seq)
	}
}
