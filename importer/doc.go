// Package importer bulk-loads directory businesses from a JSON seed
// file into the content store. Unlike public submissions, seeded
// businesses go in pre-approved. Image downloads and uploads run on a
// worker pool; document creation stays sequential so the report order
// matches the seed file.
package importer
