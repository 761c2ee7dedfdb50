package debounce

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestLastValueWins(t *testing.T) {
	d := New[string](time.Second)

	t1 := d.Push("a", epoch)
	t2 := d.Push("ab", epoch.Add(200*time.Millisecond))
	t3 := d.Push("abc", epoch.Add(400*time.Millisecond))

	var delivered []string
	due := epoch.Add(2 * time.Second)
	for _, tk := range []Ticket{t1, t2, t3} {
		if v, ok := d.Fire(tk, due); ok {
			delivered = append(delivered, v)
		}
	}

	if len(delivered) != 1 {
		t.Fatalf("delivered %d values, want 1: %v", len(delivered), delivered)
	}
	if delivered[0] != "abc" {
		t.Fatalf("delivered %q, want %q", delivered[0], "abc")
	}
}

func TestTicketDeadline(t *testing.T) {
	d := New[int](time.Second)
	tk := d.Push(1, epoch)

	if !tk.Deadline.Equal(epoch.Add(time.Second)) {
		t.Fatalf("deadline = %v, want %v", tk.Deadline, epoch.Add(time.Second))
	}
	if w := tk.Wait(epoch.Add(300 * time.Millisecond)); w != 700*time.Millisecond {
		t.Fatalf("Wait = %v, want 700ms", w)
	}
	if w := tk.Wait(epoch.Add(5 * time.Second)); w != 0 {
		t.Fatalf("Wait past deadline = %v, want 0", w)
	}
}

func TestFireTwice(t *testing.T) {
	d := New[int](0)
	tk := d.Push(7, epoch)

	if v, ok := d.Fire(tk, epoch); !ok || v != 7 {
		t.Fatalf("first Fire = (%d, %v), want (7, true)", v, ok)
	}
	if _, ok := d.Fire(tk, epoch); ok {
		t.Fatal("second Fire of the same ticket delivered again")
	}
}

func TestSeparateQuietPeriods(t *testing.T) {
	d := New[string](time.Second)

	first := d.Push("x", epoch)
	if v, ok := d.Fire(first, first.Deadline); !ok || v != "x" {
		t.Fatalf("Fire(first) = (%q, %v)", v, ok)
	}

	second := d.Push("y", epoch.Add(3*time.Second))
	if v, ok := d.Fire(second, second.Deadline); !ok || v != "y" {
		t.Fatalf("Fire(second) = (%q, %v)", v, ok)
	}
}

func TestCancelAndFlush(t *testing.T) {
	d := New[string](time.Second)

	tk := d.Push("gone", epoch)
	d.Cancel()
	if _, ok := d.Fire(tk, tk.Deadline); ok {
		t.Fatal("Fire after Cancel delivered a value")
	}
	if _, ok := d.Pending(); ok {
		t.Fatal("Pending after Cancel = true")
	}

	d.Push("kept", epoch)
	if v, ok := d.Flush(); !ok || v != "kept" {
		t.Fatalf("Flush = (%q, %v), want (kept, true)", v, ok)
	}
	if _, ok := d.Flush(); ok {
		t.Fatal("second Flush delivered again")
	}
}

func TestNegativeDelayClamped(t *testing.T) {
	d := New[int](-time.Second)
	if d.Delay() != 0 {
		t.Fatalf("Delay = %v, want 0", d.Delay())
	}
}

func TestFireBeforeDeadline(t *testing.T) {
	d := New[string](time.Second)
	tk := d.Push("early", epoch)

	if _, ok := d.Fire(tk, epoch.Add(999*time.Millisecond)); ok {
		t.Fatal("Fire before the deadline delivered a value")
	}
	if _, ok := d.Pending(); !ok {
		t.Fatal("early Fire dropped the pending value")
	}
	if v, ok := d.Fire(tk, tk.Deadline); !ok || v != "early" {
		t.Fatalf("Fire at deadline = (%q, %v), want (early, true)", v, ok)
	}
}

func TestSetDelay(t *testing.T) {
	d := New[int](time.Second)
	old := d.Push(1, epoch)

	d.SetDelay(250 * time.Millisecond)
	if !old.Deadline.Equal(epoch.Add(time.Second)) {
		t.Fatalf("existing ticket deadline moved to %v", old.Deadline)
	}
	tk := d.Push(2, epoch)
	if !tk.Deadline.Equal(epoch.Add(250 * time.Millisecond)) {
		t.Fatalf("deadline = %v, want 250ms after push", tk.Deadline)
	}

	d.SetDelay(-time.Minute)
	if d.Delay() != 0 {
		t.Fatalf("Delay = %v, want 0", d.Delay())
	}
}
