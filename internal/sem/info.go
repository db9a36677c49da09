package sem

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/prism/internal/ast"
)

// BindingPoint is the (group, binding) pair of a resource variable.
type BindingPoint struct {
	Group   uint32 `json:"group"`
	Binding uint32 `json:"binding"`
}

func (bp BindingPoint) String() string {
	return fmt.Sprintf("{%d,%d}", bp.Group, bp.Binding)
}

// Behavior is one way control can leave a statement.
type Behavior uint8

const (
	BehaviorNext Behavior = 1 << iota
	BehaviorReturn
	BehaviorBreak
	BehaviorContinue
	BehaviorDiscard
)

var behaviorNames = []struct {
	b    Behavior
	name string
}{
	{BehaviorNext, "Next"},
	{BehaviorReturn, "Return"},
	{BehaviorBreak, "Break"},
	{BehaviorContinue, "Continue"},
	{BehaviorDiscard, "Discard"},
}

// Behaviors is a set of Behavior values.
type Behaviors uint8

// Has reports whether b is in the set.
func (s Behaviors) Has(b Behavior) bool { return uint8(s)&uint8(b) != 0 }

// With returns the set plus bs.
func (s Behaviors) With(bs ...Behavior) Behaviors {
	for _, b := range bs {
		s |= Behaviors(b)
	}
	return s
}

// Without returns the set minus bs.
func (s Behaviors) Without(bs ...Behavior) Behaviors {
	for _, b := range bs {
		s &^= Behaviors(b)
	}
	return s
}

// Union returns s ∪ o.
func (s Behaviors) Union(o Behaviors) Behaviors { return s | o }

func (s Behaviors) String() string {
	var parts []string
	for _, bn := range behaviorNames {
		if s.Has(bn.b) {
			parts = append(parts, bn.name)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// VariableKind tells where a variable was declared.
type VariableKind int

const (
	VariableGlobal VariableKind = iota
	VariableLocal
	VariableParameter
)

// Variable summarizes a declared variable, let, const, override or
// parameter.
type Variable struct {
	Decl         ast.NodeID
	Name         string
	Kind         VariableKind
	Type         Type
	AddressSpace ast.AddressSpace
	Access       ast.Access
	Builtin      ast.BuiltinValue
	// BindingPoint is nil for variables without @group and @binding.
	BindingPoint *BindingPoint
	// Users holds the identifier expressions that refer to the variable.
	Users []ast.NodeID
}

// Function summarizes a function declaration.
type Function struct {
	Decl          ast.NodeID
	Name          string
	Stage         ast.PipelineStage
	WorkgroupSize [3]uint32
	Params        []*Variable
	ReturnType    Type
	Behaviors     Behaviors

	// DirectGlobals are the module-scope variables referenced in the body.
	DirectGlobals []*Variable
	// TransitiveGlobals adds the globals of every function reached by calls.
	TransitiveGlobals []*Variable
	// Callees are the user functions called directly, in first-call order.
	Callees []*Function
	// AncestorEntryPoints are the entry points that reach this function.
	AncestorEntryPoints []*Function
}

// IsEntryPoint reports whether f carries a pipeline stage.
func (f *Function) IsEntryPoint() bool {
	return f.Stage != ast.StageNone
}

// Expression holds the resolved facts of one expression node.
type Expression struct {
	Decl ast.NodeID
	Type Type
	// Stmt is the statement holding the expression, None at module scope.
	Stmt ast.NodeID
	// Variable is set for identifiers naming a variable.
	Variable *Variable
	// Target is set for calls of user functions.
	Target *Function
	// Builtin is set for calls of builtin functions.
	Builtin string
	// Member is set for member accesses on structures.
	Member *StructMember
	// Swizzle is set for member accesses on vectors.
	Swizzle []int
}

// Statement holds the resolved facts of one statement node.
type Statement struct {
	Decl      ast.NodeID
	Function  *Function
	Behaviors Behaviors
	Reachable bool
}

// Info is the semantic side table of a program.
type Info struct {
	Types       map[ast.NodeID]Type
	Exprs       map[ast.NodeID]*Expression
	Stmts       map[ast.NodeID]*Statement
	Variables   map[ast.NodeID]*Variable
	Functions   map[ast.NodeID]*Function
	Structs     map[ast.NodeID]*Struct
	// TypeDecls maps each TypeName node to the struct or alias it names.
	TypeDecls   map[ast.NodeID]ast.NodeID
	EntryPoints []*Function
}

// NewInfo creates empty tables.
func NewInfo() *Info {
	return &Info{
		Types:     make(map[ast.NodeID]Type),
		Exprs:     make(map[ast.NodeID]*Expression),
		Stmts:     make(map[ast.NodeID]*Statement),
		Variables: make(map[ast.NodeID]*Variable),
		Functions: make(map[ast.NodeID]*Function),
		Structs:   make(map[ast.NodeID]*Struct),
		TypeDecls: make(map[ast.NodeID]ast.NodeID),
	}
}

// TypeOf returns the type of an expression or type node, or nil.
func (i *Info) TypeOf(id ast.NodeID) Type {
	if e, ok := i.Exprs[id]; ok {
		return e.Type
	}
	return i.Types[id]
}

// Expr returns the facts of expression id, or nil.
func (i *Info) Expr(id ast.NodeID) *Expression { return i.Exprs[id] }

// Stmt returns the facts of statement id, or nil.
func (i *Info) Stmt(id ast.NodeID) *Statement { return i.Stmts[id] }

// Variable returns the facts of variable declaration id, or nil.
func (i *Info) Variable(id ast.NodeID) *Variable { return i.Variables[id] }

// Function returns the facts of function declaration id, or nil.
func (i *Info) Function(id ast.NodeID) *Function { return i.Functions[id] }

// Struct returns the resolved structure declared by id, or nil.
func (i *Info) Struct(id ast.NodeID) *Struct { return i.Structs[id] }

// HasStage reports whether any entry point has the given stage.
func (i *Info) HasStage(stage ast.PipelineStage) bool {
	for _, ep := range i.EntryPoints {
		if ep.Stage == stage {
			return true
		}
	}
	return false
}

// VariableOf returns the variable an identifier refers to, or nil.
func (i *Info) VariableOf(ident ast.NodeID) *Variable {
	if e := i.Exprs[ident]; e != nil {
		return e.Variable
	}
	return nil
}

// Call returns the facts of a call expression, or nil when id is not a
// resolved function or builtin call.
func (i *Info) Call(id ast.NodeID) *Expression {
	if e := i.Exprs[id]; e != nil && (e.Target != nil || e.Builtin != "") {
		return e
	}
	return nil
}

// Member returns the structure member a member access selects, or nil.
func (i *Info) Member(id ast.NodeID) *StructMember {
	if e := i.Exprs[id]; e != nil {
		return e.Member
	}
	return nil
}

// Behaviors returns the behaviors of a statement.
func (i *Info) Behaviors(stmt ast.NodeID) Behaviors {
	if s := i.Stmts[stmt]; s != nil {
		return s.Behaviors
	}
	return 0
}

// IsReachable reports whether control can reach stmt.
func (i *Info) IsReachable(stmt ast.NodeID) bool {
	s := i.Stmts[stmt]
	return s != nil && s.Reachable
}

// TypeDecl returns the declaration a TypeName node refers to.
func (i *Info) TypeDecl(typeName ast.NodeID) ast.NodeID {
	return i.TypeDecls[typeName]
}
