package core

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestProfile_Defaults(t *testing.T) {
	p := NewProfile("alice")
	if p.UserID != "alice" {
		t.Fatalf("unexpected user id: %q", p.UserID)
	}
	if len(p.Interests) != 0 || len(p.LearnedPatterns) != 0 {
		t.Fatalf("new profile should start empty")
	}
	if _, ok := p.Preference(PrefTone); !ok {
		t.Fatalf("expected default tone preference")
	}
	if p.Updated.Before(p.Created) {
		t.Fatalf("updated before created on fresh profile")
	}
}

func TestProfile_AddInterestIdempotent(t *testing.T) {
	p := NewProfile("u")
	if !p.AddInterest("AI") {
		t.Fatalf("first add should change the set")
	}
	if p.AddInterest("ai") {
		t.Fatalf("case-variant add should be a no-op")
	}
	if p.AddInterest("  AI  ") {
		t.Fatalf("whitespace-variant add should be a no-op")
	}
	if got := p.InterestList(); len(got) != 1 || got[0] != "ai" {
		t.Fatalf("expected exactly one normalized interest, got %#v", got)
	}
	if p.AddInterest("   ") {
		t.Fatalf("blank interest should be rejected")
	}
}

func TestProfile_RemoveMissingIsNoOp(t *testing.T) {
	p := NewProfile("u")
	p.AddInterest("go")
	before := p.Clone()
	if p.RemoveInterest("x") {
		t.Fatalf("removing a missing interest should report no change")
	}
	// profile equality holds except possibly updatedAt
	after := p.Clone()
	after.Updated = before.Updated
	if !reflect.DeepEqual(before.Interests, after.Interests) ||
		before.InteractionCount != after.InteractionCount ||
		!reflect.DeepEqual(before.LearnedPatterns, after.LearnedPatterns) {
		t.Fatalf("no-op removal mutated the profile")
	}
}

func TestProfile_RecordInteraction(t *testing.T) {
	p := NewProfile("u")
	prev := p.Updated
	time.Sleep(time.Millisecond)
	p.RecordInteraction()
	p.RecordInteraction()
	if p.InteractionCount != 2 {
		t.Fatalf("expected monotonic counter 2, got %d", p.InteractionCount)
	}
	if !p.Updated.After(prev) {
		t.Fatalf("mutation did not bump updated timestamp")
	}
}

func TestProfile_UnknownPreferenceAccepted(t *testing.T) {
	p := NewProfile("u")
	p.UpdatePreference("experimental_flag", BoolPreference(true))
	v, ok := p.Preference("experimental_flag")
	if !ok {
		t.Fatalf("unknown preference name should be stored")
	}
	if b, _ := v.AsBool(); !b {
		t.Fatalf("stored value lost")
	}
}

func TestProfile_LearnedPatternsOverwrite(t *testing.T) {
	p := NewProfile("u")
	p.RecordLearnedPattern("style", "short answers")
	p.RecordLearnedPattern("style", "detailed answers")
	if p.LearnedPatterns["style"] != "detailed answers" {
		t.Fatalf("pattern should be overwritten by name")
	}
	if got := p.PatternNames(); len(got) != 1 || got[0] != "style" {
		t.Fatalf("unexpected pattern names: %#v", got)
	}
	if v, ok := p.LearnedPattern("style"); !ok || v != "detailed answers" {
		t.Fatalf("accessor returned %q, %v", v, ok)
	}
	if _, ok := p.LearnedPattern("unknown"); ok {
		t.Fatalf("unset pattern should report not ok")
	}
}

func TestPreference_JSONRoundTrip(t *testing.T) {
	doc := map[string]Preference{
		"tone":  StringPreference("direct"),
		"limit": NumberPreference(12),
		"beta":  BoolPreference(true),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var back map[string]Preference
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if s, _ := back["tone"].AsString(); s != "direct" {
		t.Fatalf("string preference lost: %#v", back["tone"])
	}
	if n, _ := back["limit"].AsNumber(); n != 12 {
		t.Fatalf("number preference lost: %#v", back["limit"])
	}
	if b, _ := back["beta"].AsBool(); !b {
		t.Fatalf("bool preference lost: %#v", back["beta"])
	}
}

func TestContentItem_Identity(t *testing.T) {
	a := NewContentItem("  Foo ", "http://x", ContentArticle, "")
	b := NewContentItem("foo", "http://x", ContentVideo, "different summary")
	if a.Identity() != b.Identity() {
		t.Fatalf("identity should normalize title case and whitespace")
	}
	c := NewContentItem("foo", "http://y", ContentArticle, "")
	if a.Identity() == c.Identity() {
		t.Fatalf("different urls must have different identities")
	}
}

func TestParseContentType(t *testing.T) {
	if ParseContentType(" Paper ") != ContentPaper {
		t.Fatalf("expected normalized paper tag")
	}
	if ParseContentType("podcast") != ContentOther {
		t.Fatalf("unknown tags must fall back to other")
	}
}
