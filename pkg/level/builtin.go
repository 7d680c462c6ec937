package level

import (
	"fmt"
	"sort"

	"hrm/replay-go/pkg/machine"
)

// The builtin table covers the levels the replayer ships with. Inboxes
// and expected outboxes are fixed rather than randomized, which keeps
// every replay deterministic.
var builtins = map[int]func() *Level{
	1:  mailRoom,
	2:  busyMailRoom,
	3:  copyFloor,
	4:  scramblerHandler,
	35: duplicateRemoval,
	36: alphabetizer,
	37: scavengerHunt,
	38: digitExploder,
}

// Builtin returns a fresh copy of the numbered builtin level.
func Builtin(n int) (*Level, error) {
	build, ok := builtins[n]
	if !ok {
		return nil, fmt.Errorf("level: no builtin level %d", n)
	}
	return build(), nil
}

// Builtins returns all builtin levels in number order.
func Builtins() []*Level {
	numbers := make([]int, 0, len(builtins))
	for n := range builtins {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	levels := make([]*Level, 0, len(numbers))
	for _, n := range numbers {
		levels = append(levels, builtins[n]())
	}
	return levels
}

// Copy the inbox to the outbox.
func mailRoom() *Level {
	return &Level{
		Number:     1,
		Name:       "Mail Room",
		Inbox:      nums(1, 2, 3),
		Expected:   nums(1, 2, 3),
		Floor:      Floor{},
		ValueBound: DefaultValueBound,
		StepLimit:  DefaultStepLimit,
	}
}

// Copy a longer inbox to the outbox.
func busyMailRoom() *Level {
	return &Level{
		Number:     2,
		Name:       "Busy Mail Room",
		Inbox:      word("initialize"),
		Expected:   word("initialize"),
		Floor:      Floor{},
		ValueBound: DefaultValueBound,
		StepLimit:  DefaultStepLimit,
	}
}

// Ignore the inbox; spell a word from the floor tiles.
func copyFloor() *Level {
	return &Level{
		Number:   3,
		Name:     "Copy Floor",
		Inbox:    nums(-99, -99, -99, -99),
		Expected: word("bug"),
		Floor: Floor{
			Size:  6,
			Tiles: tilesFromWord("ujxgbe"),
		},
		ValueBound: DefaultValueBound,
		StepLimit:  DefaultStepLimit,
	}
}

// Swap each pair from the inbox.
func scramblerHandler() *Level {
	inbox := append(nums(6, 4, -1, 7), word("ih")...)
	expected := append(nums(4, 6, 7, -1), word("hi")...)
	return &Level{
		Number:     4,
		Name:       "Scrambler Handler",
		Inbox:      inbox,
		Expected:   expected,
		Floor:      Floor{Size: 3},
		ValueBound: DefaultValueBound,
		StepLimit:  DefaultStepLimit,
	}
}

// Copy the inbox to the outbox, dropping anything already sent.
func duplicateRemoval() *Level {
	return &Level{
		Number:   35,
		Name:     "Duplicate Removal",
		Inbox:    word("eabedebaeb"),
		Expected: word("eabd"),
		Floor: Floor{
			Size:  15,
			Tiles: map[int]machine.Value{14: machine.Num(0)},
		},
		ValueBound: DefaultValueBound,
		StepLimit:  DefaultStepLimit,
	}
}

// Of two zero-terminated words, emit the one that sorts first.
func alphabetizer() *Level {
	return &Level{
		Number:   36,
		Name:     "Alphabetizer",
		Inbox:    zeroTerminated("aab", "aaa"),
		Expected: word("aaa"),
		Floor: Floor{
			Size: 25,
			Tiles: map[int]machine.Value{
				23: machine.Num(0),
				24: machine.Num(10),
			},
		},
		ValueBound: DefaultValueBound,
		StepLimit:  DefaultStepLimit,
	}
}

// Follow the linked list laid out on the floor, emitting each letter,
// until a next pointer of -1.
func scavengerHunt() *Level {
	tiles := map[int]machine.Value{}
	chain := []struct {
		index  int
		letter rune
		next   int
	}{
		{0, 'e', 13},
		{3, 'c', 23},
		{10, 'p', 20},
		{13, 's', 3},
		{20, 'e', -1},
		{23, 'a', 10},
	}
	for _, link := range chain {
		tiles[link.index] = machine.Char(link.letter)
		tiles[link.index+1] = machine.Num(link.next)
	}
	return &Level{
		Number:     37,
		Name:       "Scavenger Hunt",
		Inbox:      nums(0, 23),
		Expected:   word("escapeape"),
		Floor:      Floor{Size: 25, Tiles: tiles},
		ValueBound: DefaultValueBound,
		StepLimit:  DefaultStepLimit,
	}
}

// Emit the decimal digits of each inbox number.
func digitExploder() *Level {
	return &Level{
		Number:   38,
		Name:     "Digit Exploder",
		Inbox:    nums(33, 505, 7, 979),
		Expected: nums(3, 3, 5, 0, 5, 7, 9, 7, 9),
		Floor: Floor{
			Size: 12,
			Tiles: map[int]machine.Value{
				9:  machine.Num(0),
				10: machine.Num(10),
				11: machine.Num(100),
			},
		},
		ValueBound: DefaultValueBound,
		StepLimit:  DefaultStepLimit,
	}
}

func tilesFromWord(s string) map[int]machine.Value {
	tiles := make(map[int]machine.Value, len(s))
	for i, r := range s {
		tiles[i] = machine.Char(r)
	}
	return tiles
}
