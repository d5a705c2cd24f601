package model

import (
	"go/parser"
	"go/token"
	"os"
	"strconv"
	"strings"
	"testing"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	if PairKey("u2", "u1") != PairKey("u1", "u2") {
		t.Fatalf("pair key must not depend on argument order")
	}
	if got := PairKey("b", "a"); got != "a:b" {
		t.Fatalf("unexpected pair key: %s", got)
	}
}

func TestHasParticipantOnlyCoversDirectChannels(t *testing.T) {
	direct := Channel{Kind: ChannelDirect, CreatedBy: "a", RecipientID: "b"}
	if !direct.HasParticipant("b") || direct.HasParticipant("c") || direct.HasParticipant("") {
		t.Fatalf("unexpected direct participants")
	}

	group := Channel{Kind: ChannelGroup, CreatedBy: "a"}
	if group.HasParticipant("a") {
		t.Fatalf("group membership is not derived from the channel row")
	}
}

func TestModelDoesNotImportRepoLayer(t *testing.T) {
	entries, err := os.ReadDir(".")
	if err != nil {
		t.Fatalf("read package dir: %v", err)
	}

	fset := token.NewFileSet()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
			continue
		}
		f, err := parser.ParseFile(fset, e.Name(), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", e.Name(), err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if strings.Contains(path, "/internal/repo/") || strings.Contains(path, "/internal/services/") {
				t.Fatalf("%s imports %s; domain models must stay plain structs", e.Name(), path)
			}
		}
	}
}
