// Package utils provides common utility functions for the scale-sync application.
// It includes helper functions for type conversion of loosely typed inputs,
// such as the form-encoded fields of Withings webhook notifications.
package utils
