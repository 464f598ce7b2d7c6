package main

import "errors"

// errAnalysisFailed is returned (never wrapped with additional text) so
// main's top-level error handler exits non-zero without printing a
// redundant "error: ..." line over what check-*, resources and
// call-graph have already printed to stdout.
var errAnalysisFailed = errors.New("analysis failed")
