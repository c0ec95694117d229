package core

import (
	"reflect"
	"testing"
	"time"
)

func sampleRecords() []ModelRecord {
	return []ModelRecord{
		{Model: "GPT-4", Organization: "OpenAI", ReleaseDate: date(2023, 3, 14)},
		{Model: "Claude 2", Organization: "Anthropic", ReleaseDate: date(2023, 7, 11)},
		{Model: "Llama 2", Organization: "Meta", ReleaseDate: date(2023, 7, 18)},
		{Model: "Claude", Organization: "Anthropic", ReleaseDate: date(2023, 3, 14)},
		{Model: "Mistral 7B", Organization: "Mistral AI", ReleaseDate: date(2023, 9, 27)},
	}
}

func TestGroupByMonth(t *testing.T) {
	buckets := GroupByMonth(sampleRecords())

	wantMonths := []string{"2023-03", "2023-07", "2023-09"}
	if len(buckets) != len(wantMonths) {
		t.Fatalf("got %d buckets, want %d", len(buckets), len(wantMonths))
	}
	for i, b := range buckets {
		if b.Month.String() != wantMonths[i] {
			t.Errorf("bucket[%d].Month = %s, want %s", i, b.Month, wantMonths[i])
		}
		if b.Count != len(b.Records) {
			t.Errorf("bucket[%d]: Count %d != len(Records) %d", i, b.Count, len(b.Records))
		}
	}

	// Records within a bucket keep input order.
	march := buckets[0]
	if march.Count != 2 {
		t.Fatalf("2023-03 count = %d, want 2", march.Count)
	}
	if march.Records[0].Model != "GPT-4" || march.Records[1].Model != "Claude" {
		t.Errorf("2023-03 records out of input order: %v", march.Records)
	}
}

func TestGroupByMonthCountsSumToTotal(t *testing.T) {
	records := sampleRecords()
	total := 0
	for _, b := range GroupByMonth(records) {
		total += b.Count
	}
	if total != len(records) {
		t.Errorf("bucket counts sum to %d, want %d", total, len(records))
	}
}

func TestGroupByMonthEveryRecordInExactlyOneBucket(t *testing.T) {
	records := sampleRecords()
	seen := make(map[string]int)
	for _, b := range GroupByMonth(records) {
		for _, r := range b.Records {
			seen[r.Model]++
			if r.Month() != b.Month {
				t.Errorf("record %s (month %s) landed in bucket %s", r.Model, r.Month(), b.Month)
			}
		}
	}
	for _, r := range records {
		if seen[r.Model] != 1 {
			t.Errorf("record %s appears in %d buckets, want 1", r.Model, seen[r.Model])
		}
	}
}

func TestGroupByMonthEmptyInput(t *testing.T) {
	if got := GroupByMonth(nil); got != nil {
		t.Errorf("GroupByMonth(nil) = %v, want nil", got)
	}
	if got := GroupByMonth([]ModelRecord{}); got != nil {
		t.Errorf("GroupByMonth(empty) = %v, want nil", got)
	}
}

func TestGroupByMonthDeterministic(t *testing.T) {
	records := sampleRecords()
	first := GroupByMonth(records)
	second := GroupByMonth(records)
	if !reflect.DeepEqual(first, second) {
		t.Error("GroupByMonth is not deterministic for identical input")
	}
}

func TestFillMonthGaps(t *testing.T) {
	buckets := GroupByMonth(sampleRecords())
	dense := FillMonthGaps(buckets)

	wantMonths := []string{"2023-03", "2023-04", "2023-05", "2023-06", "2023-07", "2023-08", "2023-09"}
	if len(dense) != len(wantMonths) {
		t.Fatalf("got %d dense buckets, want %d", len(dense), len(wantMonths))
	}
	for i, b := range dense {
		if b.Month.String() != wantMonths[i] {
			t.Errorf("dense[%d].Month = %s, want %s", i, b.Month, wantMonths[i])
		}
	}
	// Synthesized buckets are empty; originals are untouched.
	if dense[1].Count != 0 || dense[1].Records != nil {
		t.Errorf("gap bucket should be empty, got %+v", dense[1])
	}
	if dense[0].Count != 2 {
		t.Errorf("original bucket lost records: %+v", dense[0])
	}
}

func TestFillMonthGapsAcrossYearBoundary(t *testing.T) {
	records := []ModelRecord{
		{Model: "A", Organization: "X", ReleaseDate: date(2022, 11, 1)},
		{Model: "B", Organization: "X", ReleaseDate: date(2023, 2, 1)},
	}
	dense := FillMonthGaps(GroupByMonth(records))
	wantMonths := []string{"2022-11", "2022-12", "2023-01", "2023-02"}
	if len(dense) != len(wantMonths) {
		t.Fatalf("got %d buckets, want %d", len(dense), len(wantMonths))
	}
	for i, b := range dense {
		if b.Month.String() != wantMonths[i] {
			t.Errorf("dense[%d].Month = %s, want %s", i, b.Month, wantMonths[i])
		}
	}
}

func TestFillMonthGapsShortInputs(t *testing.T) {
	if got := FillMonthGaps(nil); got != nil {
		t.Errorf("FillMonthGaps(nil) = %v, want nil", got)
	}
	one := []MonthlyBucket{{Month: YearMonth{2023, time.March}, Count: 1}}
	if got := FillMonthGaps(one); len(got) != 1 {
		t.Errorf("FillMonthGaps(single) = %v, want unchanged", got)
	}
}

func TestGroupByOrganization(t *testing.T) {
	groups := GroupByOrganization(sampleRecords())

	// First-appearance order.
	wantOrgs := []string{"OpenAI", "Anthropic", "Meta", "Mistral AI"}
	if len(groups) != len(wantOrgs) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantOrgs))
	}
	for i, g := range groups {
		if g.Organization != wantOrgs[i] {
			t.Errorf("group[%d] = %s, want %s", i, g.Organization, wantOrgs[i])
		}
	}

	// Within a group, records sorted by release date ascending.
	anthropic := groups[1]
	if len(anthropic.Records) != 2 {
		t.Fatalf("Anthropic group has %d records, want 2", len(anthropic.Records))
	}
	if anthropic.Records[0].Model != "Claude" || anthropic.Records[1].Model != "Claude 2" {
		t.Errorf("Anthropic records not date-sorted: %v", anthropic.Records)
	}
}

func TestGroupByOrganizationStableTies(t *testing.T) {
	records := []ModelRecord{
		{Model: "First", Organization: "Lab", ReleaseDate: date(2024, 1, 1)},
		{Model: "Second", Organization: "Lab", ReleaseDate: date(2024, 1, 1)},
		{Model: "Third", Organization: "Lab", ReleaseDate: date(2024, 1, 1)},
	}
	groups := GroupByOrganization(records)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if groups[0].Records[i].Model != want {
			t.Errorf("tie order broken at %d: got %s, want %s", i, groups[0].Records[i].Model, want)
		}
	}
}

func TestGroupByOrganizationNoNormalization(t *testing.T) {
	records := []ModelRecord{
		{Model: "GPT-4", Organization: "OpenAI", ReleaseDate: date(2023, 3, 14)},
		{Model: "GPT-4 Turbo", Organization: "Open AI", ReleaseDate: date(2023, 11, 6)},
	}
	groups := GroupByOrganization(records)
	if len(groups) != 2 {
		t.Fatalf("spelling variants must stay distinct, got %d groups", len(groups))
	}
}

func TestGroupByOrganizationEmptyInput(t *testing.T) {
	if got := GroupByOrganization(nil); got != nil {
		t.Errorf("GroupByOrganization(nil) = %v, want nil", got)
	}
}

func TestTwoRecordsSameMonthScenario(t *testing.T) {
	records := []ModelRecord{
		{Model: "GPT-4", Organization: "OpenAI", ReleaseDate: date(2023, 3, 14)},
		{Model: "Claude 2", Organization: "Anthropic", ReleaseDate: date(2023, 3, 14)},
	}

	buckets := GroupByMonth(records)
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	if buckets[0].Month.String() != "2023-03" || buckets[0].Count != 2 {
		t.Errorf("bucket = %s count %d, want 2023-03 count 2", buckets[0].Month, buckets[0].Count)
	}

	groups := GroupByOrganization(records)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	for _, g := range groups {
		if len(g.Records) != 1 {
			t.Errorf("group %s has %d records, want 1", g.Organization, len(g.Records))
		}
	}
}
