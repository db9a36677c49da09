package ast

import (
	"github.com/orizon-lang/prism/internal/castable"
)

// Block is a braced statement list.
type Block struct {
	Base
	Statements []NodeID
}

// VarDecl declares a function-scope variable, let or const.
type VarDecl struct {
	Base
	Variable NodeID
}

// Assign is LHS = RHS.
type Assign struct {
	Base
	LHS NodeID
	RHS NodeID
}

// Increment is LHS++ or LHS--.
type Increment struct {
	Base
	LHS       NodeID
	Decrement bool
}

// CallStatement discards the result of a call.
type CallStatement struct {
	Base
	Call NodeID
}

// If is if (Condition) Body else Else. Else is None, another If (an else
// if) or a Block.
type If struct {
	Base
	Condition NodeID
	Body      NodeID
	Else      NodeID
}

// For is for (Initializer; Condition; Continuing) Body. Every header part
// may be None.
type For struct {
	Base
	Initializer NodeID
	Condition   NodeID
	Continuing  NodeID
	Body        NodeID
}

// While is while (Condition) Body.
type While struct {
	Base
	Condition NodeID
	Body      NodeID
}

// Loop is loop { Body continuing { Continuing } }.
type Loop struct {
	Base
	Body       NodeID
	Continuing NodeID
}

// Break leaves the innermost loop.
type Break struct{ Base }

// Continue starts the next iteration.
type Continue struct{ Base }

// Discard ends the fragment invocation.
type Discard struct{ Base }

// Return leaves the function, with an optional Value.
type Return struct {
	Base
	Value NodeID
}

var (
	blockInfo         = castable.Register[*Block]("Block", statementInfo)
	varDeclInfo       = castable.Register[*VarDecl]("VarDecl", statementInfo)
	assignInfo        = castable.Register[*Assign]("Assign", statementInfo)
	incrementInfo     = castable.Register[*Increment]("Increment", statementInfo)
	callStatementInfo = castable.Register[*CallStatement]("CallStatement", statementInfo)
	ifInfo            = castable.Register[*If]("If", statementInfo)
	forInfo           = castable.Register[*For]("For", statementInfo)
	whileInfo         = castable.Register[*While]("While", statementInfo)
	loopInfo          = castable.Register[*Loop]("Loop", statementInfo)
	breakInfo         = castable.Register[*Break]("Break", statementInfo)
	continueInfo      = castable.Register[*Continue]("Continue", statementInfo)
	discardInfo       = castable.Register[*Discard]("Discard", statementInfo)
	returnInfo        = castable.Register[*Return]("Return", statementInfo)
)

func (*Block) TypeInfo() *castable.TypeInfo         { return blockInfo }
func (*VarDecl) TypeInfo() *castable.TypeInfo       { return varDeclInfo }
func (*Assign) TypeInfo() *castable.TypeInfo        { return assignInfo }
func (*Increment) TypeInfo() *castable.TypeInfo     { return incrementInfo }
func (*CallStatement) TypeInfo() *castable.TypeInfo { return callStatementInfo }
func (*If) TypeInfo() *castable.TypeInfo            { return ifInfo }
func (*For) TypeInfo() *castable.TypeInfo           { return forInfo }
func (*While) TypeInfo() *castable.TypeInfo         { return whileInfo }
func (*Loop) TypeInfo() *castable.TypeInfo          { return loopInfo }
func (*Break) TypeInfo() *castable.TypeInfo         { return breakInfo }
func (*Continue) TypeInfo() *castable.TypeInfo      { return continueInfo }
func (*Discard) TypeInfo() *castable.TypeInfo       { return discardInfo }
func (*Return) TypeInfo() *castable.TypeInfo        { return returnInfo }

func (*Block) statementNode()         {}
func (*VarDecl) statementNode()       {}
func (*Assign) statementNode()        {}
func (*Increment) statementNode()     {}
func (*CallStatement) statementNode() {}
func (*If) statementNode()            {}
func (*For) statementNode()           {}
func (*While) statementNode()         {}
func (*Loop) statementNode()          {}
func (*Break) statementNode()         {}
func (*Continue) statementNode()      {}
func (*Discard) statementNode()       {}
func (*Return) statementNode()        {}
