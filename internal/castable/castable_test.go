package castable

import (
	"testing"

	"github.com/orizon-lang/prism/internal/errors"
)

type Animal interface {
	Castable
	Sound() string
}

type Amphibian interface {
	Animal
	amphibian()
}

type Mammal interface {
	Animal
	mammal()
}

type Reptile interface {
	Animal
	reptile()
}

type Frog struct{}

func (*Frog) TypeInfo() *TypeInfo { return frogInfo }
func (*Frog) Sound() string       { return "ribbit" }
func (*Frog) amphibian()          {}

type Bear struct{}

func (*Bear) TypeInfo() *TypeInfo { return bearInfo }
func (*Bear) Sound() string       { return "growl" }
func (*Bear) mammal()             {}

type Gecko struct{}

func (*Gecko) TypeInfo() *TypeInfo { return geckoInfo }
func (*Gecko) Sound() string       { return "chirp" }
func (*Gecko) reptile()            {}

var (
	animalInfo    = Register[Animal]("Animal", nil)
	amphibianInfo = Register[Amphibian]("Amphibian", animalInfo)
	mammalInfo    = Register[Mammal]("Mammal", animalInfo)
	reptileInfo   = Register[Reptile]("Reptile", animalInfo)
	frogInfo      = Register[*Frog]("Frog", amphibianInfo)
	bearInfo      = Register[*Bear]("Bear", mammalInfo)
	geckoInfo     = Register[*Gecko]("Gecko", reptileInfo)
)

func zoo() []Animal {
	return []Animal{&Frog{}, &Bear{}, &Gecko{}}
}

func expectMisuse(t *testing.T, code string, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a %s panic", code)
		}
		if !errors.IsMisuse(r, code) {
			t.Fatalf("expected misuse %s, got %v", code, r)
		}
	}()

	fn()
}

// TestIs tests identity checks along base chains.
func TestIs(t *testing.T) {
	frog, bear, gecko := zoo()[0], zoo()[1], zoo()[2]

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"frog is animal", Is[Animal](frog), true},
		{"bear is animal", Is[Animal](bear), true},
		{"gecko is animal", Is[Animal](gecko), true},
		{"frog is amphibian", Is[Amphibian](frog), true},
		{"bear is amphibian", Is[Amphibian](bear), false},
		{"gecko is amphibian", Is[Amphibian](gecko), false},
		{"frog is mammal", Is[Mammal](frog), false},
		{"bear is mammal", Is[Mammal](bear), true},
		{"frog is reptile", Is[Reptile](frog), false},
		{"gecko is reptile", Is[Reptile](gecko), true},
		{"frog is frog", Is[*Frog](frog), true},
		{"bear is frog", Is[*Frog](bear), false},
		{"gecko is bear", Is[*Bear](gecko), false},
		{"gecko is gecko", Is[*Gecko](gecko), true},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

// TestAsMatchesIs tests that As succeeds exactly when Is does and returns
// the same object.
func TestAsMatchesIs(t *testing.T) {
	for _, a := range zoo() {
		if v, ok := As[Mammal](a); ok != Is[Mammal](a) {
			t.Errorf("As[Mammal](%s) = %v, Is = %v", a.TypeInfo().Name, ok, !ok)
		} else if ok && Animal(v) != a {
			t.Errorf("As[Mammal](%s) returned a different object", a.TypeInfo().Name)
		}

		if v, ok := As[*Gecko](a); ok != Is[*Gecko](a) {
			t.Errorf("As[*Gecko](%s) = %v, Is = %v", a.TypeInfo().Name, ok, !ok)
		} else if ok && v.Sound() != "chirp" {
			t.Errorf("As[*Gecko] returned %q", v.Sound())
		}
	}
}

// TestStrictCastPanics tests that casting between unrelated families is a
// programming error, while the unchecked form simply reports false.
func TestStrictCastPanics(t *testing.T) {
	frog := &Frog{}

	expectMisuse(t, "IMPOSSIBLE_CAST", func() {
		Is[*Bear](frog)
	})

	expectMisuse(t, "IMPOSSIBLE_CAST", func() {
		As[Mammal](frog)
	})

	if IsUnchecked[*Bear](frog) {
		t.Error("IsUnchecked[*Bear](frog) should be false")
	}

	if _, ok := AsUnchecked[Mammal](frog); ok {
		t.Error("AsUnchecked[Mammal](frog) should fail")
	}
}

// TestIsWithPredicate tests that the predicate only runs after a
// successful cast.
func TestIsWithPredicate(t *testing.T) {
	calls := 0
	pred := func(f *Frog) bool {
		calls++
		return f.Sound() == "ribbit"
	}

	if !IsWith[*Frog](Animal(&Frog{}), pred) {
		t.Error("frog should match")
	}
	if calls != 1 {
		t.Errorf("predicate calls = %d, want 1", calls)
	}

	if IsWith[*Frog](Animal(&Bear{}), pred) {
		t.Error("bear should not match")
	}
	if calls != 1 {
		t.Errorf("predicate called on failed cast, calls = %d", calls)
	}

	if IsWith[*Frog](Animal(&Frog{}), func(*Frog) bool { return false }) {
		t.Error("rejecting predicate should fail the match")
	}
}

// TestIsAnyOf tests multi-type membership.
func TestIsAnyOf(t *testing.T) {
	frog, bear, gecko := zoo()[0], zoo()[1], zoo()[2]

	if !IsAnyOf(frog, mammalInfo, amphibianInfo) {
		t.Error("frog is an amphibian")
	}
	if !IsAnyOf(bear, mammalInfo, amphibianInfo) {
		t.Error("bear is a mammal")
	}
	if IsAnyOf(gecko, mammalInfo, amphibianInfo) {
		t.Error("gecko is neither")
	}
	if IsAnyOf(nil, animalInfo) {
		t.Error("nil matches nothing")
	}
}

// TestSwitch tests dispatch with and without a default arm.
func TestSwitch(t *testing.T) {
	for _, a := range zoo() {
		var got string
		Switch(a,
			Case(func(*Bear) { got = "bear" }),
			Case(func(Amphibian) { got = "amphibian" }),
			Default(func() { got = "default" }),
		)

		want := map[string]string{"Frog": "amphibian", "Bear": "bear", "Gecko": "default"}[a.TypeInfo().Name]
		if got != want {
			t.Errorf("Switch(%s) = %q, want %q", a.TypeInfo().Name, got, want)
		}
	}

	ran := Switch(&Gecko{}, Case(func(*Bear) {}))
	if ran {
		t.Error("Switch without a matching case or default should report false")
	}
}

// TestSwitchMatchFirst tests that declaration order beats specificity.
func TestSwitchMatchFirst(t *testing.T) {
	frog := &Frog{}

	var got string
	Switch(frog,
		Case(func(Animal) { got = "animal" }),
		Case(func(*Frog) { got = "frog" }),
	)
	if got != "animal" {
		t.Errorf("ancestor-first order: got %q", got)
	}

	Switch(frog,
		Case(func(*Frog) { got = "frog" }),
		Case(func(Animal) { got = "animal" }),
	)
	if got != "frog" {
		t.Errorf("descendant-first order: got %q", got)
	}
}

// TestSwitchNull tests dispatch on nil and typed nil values.
func TestSwitchNull(t *testing.T) {
	var typedNil *Frog

	for _, obj := range []Castable{nil, typedNil} {
		called := false
		Switch(obj, Case(func(*Frog) { called = true }))
		if called {
			t.Error("no case may be invoked with a nil object")
		}

		def := false
		Switch(obj,
			Case(func(*Frog) { called = true }),
			Default(func() { def = true }),
		)
		if called || !def {
			t.Errorf("nil dispatch: case=%v default=%v", called, def)
		}
	}
}

// TestSwitchDefaultMustBeLast tests arm validation.
func TestSwitchDefaultMustBeLast(t *testing.T) {
	expectMisuse(t, "DEFAULT_NOT_LAST", func() {
		Switch(&Frog{}, Default(func() {}), Case(func(*Frog) {}))
	})
}

// TestMatch tests the value-returning dispatch.
func TestMatch(t *testing.T) {
	sound := func(a Animal) string {
		return Match(a,
			When(func(m Mammal) string { return "mammal:" + m.Sound() }),
			When(func(f *Frog) string { return "frog:" + f.Sound() }),
			Otherwise(func() string { return "?" }),
		)
	}

	if got := sound(&Bear{}); got != "mammal:growl" {
		t.Errorf("bear: %q", got)
	}
	if got := sound(&Frog{}); got != "frog:ribbit" {
		t.Errorf("frog: %q", got)
	}
	if got := sound(&Gecko{}); got != "?" {
		t.Errorf("gecko: %q", got)
	}
	if got := Match(nil, When(func(*Frog) int { return 1 })); got != 0 {
		t.Errorf("nil without default should return zero, got %d", got)
	}
}

// TestCategory tests cross-cutting membership tables.
func TestCategory(t *testing.T) {
	coldBlooded := NewCategory("cold-blooded", amphibianInfo, reptileInfo)

	if !coldBlooded.Contains(&Frog{}) || !coldBlooded.Contains(&Gecko{}) {
		t.Error("frog and gecko are cold-blooded")
	}
	if coldBlooded.Contains(&Bear{}) {
		t.Error("bear is not cold-blooded")
	}
	if coldBlooded.String() != "cold-blooded{Amphibian, Reptile}" {
		t.Errorf("String() = %q", coldBlooded.String())
	}
}

// TestRegistry tests base-chain depth and duplicate registration.
func TestRegistry(t *testing.T) {
	if frogInfo.Depth() != 3 {
		t.Errorf("frog depth = %d, want 3", frogInfo.Depth())
	}
	if Of[*Frog]() != frogInfo {
		t.Error("Of[*Frog] should return the registered record")
	}
	if !Related(frogInfo, animalInfo) || Related(frogInfo, bearInfo) {
		t.Error("Related mismatch")
	}

	expectMisuse(t, "DUPLICATE_TYPE_INFO", func() {
		Register[*Frog]("Frog", amphibianInfo)
	})

	type unregistered struct{}
	expectMisuse(t, "UNREGISTERED_TYPE", func() {
		Of[unregistered]()
	})
}
