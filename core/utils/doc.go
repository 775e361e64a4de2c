// Package utils provides common utility functions for the code-reconciler application.
// It includes helper functions for converting spreadsheet cell values between the
// string and numeric shapes produced by decoders and JSON payloads.
package utils
