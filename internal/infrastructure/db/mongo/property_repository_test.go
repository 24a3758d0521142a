package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/estatehub/listings-api/internal/core/domain"
)

func TestBuildFilter_Empty(t *testing.T) {
	q := buildFilter(domain.PropertyFilter{})
	if len(q) != 0 {
		t.Fatalf("expected empty query, got %v", q)
	}
}

func TestBuildFilter_SubstringMatches(t *testing.T) {
	q := buildFilter(domain.PropertyFilter{Location: "austin", ProjectName: "Lake"})

	loc, ok := q["location"].(primitive.Regex)
	if !ok {
		t.Fatalf("expected regex for location, got %T", q["location"])
	}
	if loc.Pattern != "austin" || loc.Options != "i" {
		t.Fatalf("unexpected location regex: %+v", loc)
	}

	proj, ok := q["project_name"].(primitive.Regex)
	if !ok {
		t.Fatalf("expected regex for project_name, got %T", q["project_name"])
	}
	if proj.Pattern != "Lake" || proj.Options != "i" {
		t.Fatalf("unexpected project_name regex: %+v", proj)
	}
}

func TestBuildFilter_EscapesRegexMetacharacters(t *testing.T) {
	q := buildFilter(domain.PropertyFilter{Location: "a.b*c"})

	loc := q["location"].(primitive.Regex)
	if loc.Pattern == "a.b*c" {
		t.Fatalf("metacharacters not escaped: %s", loc.Pattern)
	}
	if loc.Pattern != `a\.b\*c` {
		t.Fatalf("unexpected escaped pattern: %s", loc.Pattern)
	}
}

func TestBuildFilter_PriceBounds(t *testing.T) {
	min, max := 400000.0, 600000.0

	q := buildFilter(domain.PropertyFilter{MinPrice: &min, MaxPrice: &max})
	price, ok := q["price"].(bson.M)
	if !ok {
		t.Fatalf("expected price sub-document, got %T", q["price"])
	}
	if price["$gte"] != 400000.0 || price["$lte"] != 600000.0 {
		t.Fatalf("unexpected price bounds: %v", price)
	}

	// Bounds are inclusive and independent.
	q = buildFilter(domain.PropertyFilter{MinPrice: &min})
	price = q["price"].(bson.M)
	if _, hasLte := price["$lte"]; hasLte {
		t.Fatalf("unexpected upper bound: %v", price)
	}
	if price["$gte"] != 400000.0 {
		t.Fatalf("missing lower bound: %v", price)
	}
}

func TestBuildFilter_Conjunction(t *testing.T) {
	min := 100.0
	q := buildFilter(domain.PropertyFilter{Location: "Austin", ProjectName: "Lakeview", MinPrice: &min})
	if len(q) != 3 {
		t.Fatalf("expected 3 conjunctive constraints, got %d: %v", len(q), q)
	}
}
