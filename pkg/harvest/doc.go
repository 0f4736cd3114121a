// Package harvest orchestrates the Instagram harvesting pipeline.
//
// A harvest runs in three sequential stages: fetch the profile by user ID,
// fetch the profile's timeline posts, then fetch comments for each post. The
// stages run strictly one request at a time; pacing between requests is the
// API client's responsibility.
//
// Failure handling is asymmetric. A profile failure aborts the harvest: there
// is nothing to attach results to. A post-fetch failure after the first page
// yields the posts already fetched. A comment failure on one post is logged
// and skipped, leaving that post without comments, so a single bad post never
// discards the rest of the harvest.
package harvest
