// Package ctcheck holds static checks that keep secret-handling packages
// free of constructs that are easy to get wrong in constant-time code.
//
// The package has no runtime code; its tests load the module's packages
// with golang.org/x/tools/go/packages and walk their syntax trees.
package ctcheck
