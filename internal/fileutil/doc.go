// Package fileutil holds small filesystem helpers shared by the pipeline and
// the transcript cache.
package fileutil
