package routes

import "fmt"

// Policy is the access check a route runs before its handler.
type Policy string

const (
	Public Policy = "public" // no checks
	Token  Policy = "token"  // valid bearer token
	Seller Policy = "seller" // token and stored role seller
	Admin  Policy = "admin"  // token and stored role admin
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case Public, Token, Seller, Admin:
		return p, nil
	}
	return "", fmt.Errorf("unknown route policy %q", s)
}

func (p Policy) needsToken() bool {
	return p != Public
}
