package core

import "sort"

// GroupByMonth buckets records by the calendar month of their release
// date. Buckets are returned in chronological order; months with no
// records are omitted (see FillMonthGaps for a dense axis). Within a
// bucket, records keep their input order.
//
// The result is a pure function of the input: same records in, same
// buckets out.
func GroupByMonth(records []ModelRecord) []MonthlyBucket {
	if len(records) == 0 {
		return nil
	}

	grouped := make(map[YearMonth][]ModelRecord)
	for _, r := range records {
		key := r.Month()
		grouped[key] = append(grouped[key], r)
	}

	buckets := make([]MonthlyBucket, 0, len(grouped))
	for key, recs := range grouped {
		buckets = append(buckets, MonthlyBucket{
			Month:   key,
			Count:   len(recs),
			Records: recs,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Month.Before(buckets[j].Month)
	})
	return buckets
}

// FillMonthGaps inserts zero-count buckets for every month between the
// first and last bucket, producing a dense time axis. The input must be
// chronologically sorted, as returned by GroupByMonth. Existing buckets
// are reused as-is.
func FillMonthGaps(buckets []MonthlyBucket) []MonthlyBucket {
	if len(buckets) < 2 {
		return buckets
	}

	dense := make([]MonthlyBucket, 0, len(buckets))
	cursor := buckets[0].Month
	for _, b := range buckets {
		for cursor.Before(b.Month) {
			dense = append(dense, MonthlyBucket{Month: cursor})
			cursor = cursor.Next()
		}
		dense = append(dense, b)
		cursor = b.Month.Next()
	}
	return dense
}

// GroupByOrganization groups records by their exact organization string.
// Groups appear in order of first appearance in the input; within a
// group, records are sorted by release date ascending, with same-date
// records keeping their input order.
func GroupByOrganization(records []ModelRecord) []OrganizationGroup {
	if len(records) == 0 {
		return nil
	}

	grouped := make(map[string][]ModelRecord)
	order := make([]string, 0)
	for _, r := range records {
		if _, exists := grouped[r.Organization]; !exists {
			order = append(order, r.Organization)
		}
		grouped[r.Organization] = append(grouped[r.Organization], r)
	}

	groups := make([]OrganizationGroup, 0, len(order))
	for _, org := range order {
		recs := grouped[org]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].ReleaseDate.Before(recs[j].ReleaseDate)
		})
		groups = append(groups, OrganizationGroup{
			Organization: org,
			Records:      recs,
		})
	}
	return groups
}
