package category

import (
	"testing"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

func TestExtractSplitsPrimaryAndSecondary(t *testing.T) {
	cat := Extract("arch-linux-tuner")
	if cat.Primary != "arch" || cat.Secondary != "linux" || cat.Full != "arch-linux" {
		t.Fatalf("got %+v", cat)
	}
	if len(cat.Tags) != 3 || cat.Tags[2] != "tuner" {
		t.Fatalf("expected tags capped at 3 segments, got %v", cat.Tags)
	}
}

func TestExtractSingleSegmentFallsBackToGeneral(t *testing.T) {
	cat := Extract("standalone")
	if cat.Primary != "general" || cat.Full != "general" {
		t.Fatalf("got %+v", cat)
	}
}

func res(id string) *model.Resource {
	return &model.Resource{ID: id, Type: model.KindAgent, Name: id}
}

func TestBuildTreeGroupsByPrimaryThenSecondary(t *testing.T) {
	tree := BuildTree([]*model.Resource{
		res("arch-linux-tuner"),
		res("architect"),
		res("code-archaeologist"),
	})

	arch, ok := tree.Root.Children["arch"]
	if !ok {
		t.Fatal("expected an 'arch' primary node")
	}
	if len(arch.Resources) != 0 {
		t.Fatalf("expected arch-linux-tuner to live only under its secondary node, not listed again on 'arch' itself, got %+v", arch.Resources)
	}
	linux, ok := arch.Children["linux"]
	if !ok || len(linux.Resources) != 1 || linux.Resources[0].ID != "arch-linux-tuner" {
		t.Fatalf("expected arch-linux-tuner under the 'linux' secondary node, got %+v", linux)
	}

	general, ok := tree.Root.Children["general"]
	if !ok {
		t.Fatal("expected a single-segment id to fall under the 'general' primary")
	}
	if len(general.Resources) != 1 || general.Resources[0].ID != "architect" {
		t.Fatalf("got %+v", general.Resources)
	}

	code, ok := tree.Root.Children["code"]
	if !ok {
		t.Fatal("expected a 'code' primary node")
	}
	if _, ok := code.Children["archaeologist"]; !ok {
		t.Fatal("expected 'archaeologist' secondary node under 'code'")
	}
}

func TestBuildTreeOrdersResourcesLexicographicallyWithinNode(t *testing.T) {
	tree := BuildTree([]*model.Resource{res("code-review-z"), res("code-review-a"), res("code-review-m")})
	node := tree.Root.Children["code"].Children["review"]
	if node.Resources[0].ID != "code-review-a" || node.Resources[1].ID != "code-review-m" || node.Resources[2].ID != "code-review-z" {
		t.Fatalf("expected lexicographic id order, got %v", idsOf(node.Resources))
	}
}

func TestBuildTreeCountsIncludeDescendants(t *testing.T) {
	tree := BuildTree([]*model.Resource{
		res("code-archaeologist"),
		res("code-reviewer"),
	})
	code := tree.Root.Children["code"]
	if code.Count != 2 {
		t.Fatalf("expected code.Count == 2, got %d", code.Count)
	}
}

func TestBuildTreeIsPureAndDeterministicAcrossRebuilds(t *testing.T) {
	resources := []*model.Resource{res("arch-linux-tuner"), res("architect"), res("code-archaeologist")}
	first := BuildTree(resources)
	second := BuildTree(resources)
	if first.Root.Count != second.Root.Count {
		t.Fatalf("expected identical root counts across rebuilds, got %d vs %d", first.Root.Count, second.Root.Count)
	}
	for name, node := range first.Root.Children {
		other, ok := second.Root.Children[name]
		if !ok || other.Count != node.Count {
			t.Fatalf("expected structurally equal trees, mismatch at %q", name)
		}
	}
}

func TestQueryReturnsResourcesForPrimaryCategory(t *testing.T) {
	tree := BuildTree([]*model.Resource{res("code-archaeologist"), res("code-reviewer"), res("arch-linux-tuner")})
	hits := Query(tree, "code")
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits for 'code', got %+v", hits)
	}
}

func TestQueryReturnsResourcesForFullSecondaryName(t *testing.T) {
	tree := BuildTree([]*model.Resource{res("code-archaeologist")})
	hits := Query(tree, "code-archaeologist")
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit for the full category name, got %+v", hits)
	}
}

func idsOf(resources []*model.Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.ID
	}
	return out
}
