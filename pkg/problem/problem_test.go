package problem

import (
	"errors"
	"testing"

	"rubric/pkg/score"
)

func double(x int) int { return x * 2 }

func TestBuilder_NoGroupsPutsCasesUnderRoot(t *testing.T) {
	p, err := NewBuilder("Double", Func(double)).
		AddBatch(Cases(1, 2, 3)).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	root := p.Root()
	if len(root.Children()) != 3 {
		t.Fatalf("root children = %d, want 3", len(root.Children()))
	}
	if len(p.Params()) != 3 {
		t.Fatalf("params = %d, want 3", len(p.Params()))
	}
}

func TestBuilder_GroupBoundaries(t *testing.T) {
	p, err := NewBuilder("Double", Func(double)).
		AddBatch(Cases(1, 2)).
		EndGroup(score.Info{Weight: 1}).
		AddBatch(Cases(3, 4, 5)).
		EndGroup(score.Info{Weight: 3}).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	root := p.Root()
	if len(root.Children()) != 2 {
		t.Fatalf("root children = %d, want 2 groups", len(root.Children()))
	}
	first, ok := root.Children()[0].(*Group)
	if !ok {
		t.Fatalf("first child is %T, want *Group", root.Children()[0])
	}
	if len(first.Children()) != 2 {
		t.Errorf("first group has %d cases, want 2", len(first.Children()))
	}
	if got := root.Children()[1].ScoreInfo().Weight; got != 3 {
		t.Errorf("second group weight = %v, want 3", got)
	}
	if len(p.Params()) != 5 {
		t.Errorf("params = %d, want 5 leaves in declaration order", len(p.Params()))
	}
}

func TestBuilder_TrailingCasesFormVirtualGroup(t *testing.T) {
	p, err := NewBuilder("Double", Func(double)).
		AddBatch(Cases(1, 2)).
		EndGroup(score.Info{Weight: 1}).
		Add(Case(3)).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	root := p.Root()
	if len(root.Children()) != 2 {
		t.Fatalf("root children = %d, want declared group plus virtual group", len(root.Children()))
	}
	virtual := root.Children()[1]
	if virtual.ScoreInfo().Weight != 1 {
		t.Errorf("virtual group weight = %v, want 1", virtual.ScoreInfo().Weight)
	}
	if len(virtual.Children()) != 1 {
		t.Errorf("virtual group has %d cases, want 1", len(virtual.Children()))
	}
}

func TestBuilder_NoGolden(t *testing.T) {
	_, err := NewBuilder("Empty", nil).Build()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestBuilder_PipelineNeedsConstructible(t *testing.T) {
	_, err := NewBuilder("Double", Func(double)).
		Add(Case().Pipeline(Init(), Call("Next"))).
		Build()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

type counter struct{ n int }

func newCounter() *counter { return &counter{} }

func (c *counter) Next() int { c.n++; return c.n }

func TestBuilder_PlainCaseNeedsInvocable(t *testing.T) {
	_, err := NewBuilder("Counter", Class(newCounter)).
		Add(Case(1)).
		Build()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestBuilder_ScriptNeedsScriptRunnable(t *testing.T) {
	_, err := NewBuilder("Double", Func(double)).
		Script().
		AddBatch(Cases("a")).
		Build()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestValidatePipeline_InitMustComeFirst(t *testing.T) {
	if err := validatePipeline([]Action{Call("Push", 1), Init()}); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for misplaced constructor, got %v", err)
	}
	if err := validatePipeline([]Action{Init(), Init()}); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for duplicate constructor, got %v", err)
	}
	if err := validatePipeline([]Action{Init(1), Call("Push", 2), Get("n")}); err != nil {
		t.Fatalf("valid pipeline rejected: %v", err)
	}
}
