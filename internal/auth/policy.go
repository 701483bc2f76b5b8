package auth

import (
	"net/http"
	"strings"
)

// Rule maps a route to the minimum role allowed to call it.
type Rule struct {
	Method string // empty matches any method
	Path   string
	Prefix bool
	Role   Role
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if r.Prefix {
		return strings.HasPrefix(path, r.Path)
	}
	return path == r.Path
}

// Policy resolves the role a request needs. The first matching rule wins.
type Policy struct {
	exempt map[string]struct{}
	rules  []Rule
}

// NewPolicy builds a policy from ordered rules. Exempt paths skip authentication.
func NewPolicy(rules []Rule, exempt ...string) Policy {
	set := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		set[path] = struct{}{}
	}
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return Policy{exempt: set, rules: copied}
}

// BillingRules guards the statement API. Reading statements and plays needs
// viewer, reloading the catalog needs admin, other API calls need operator.
var BillingRules = []Rule{
	{Method: http.MethodPost, Path: "/api/v1/catalog/reload", Role: RoleAdmin},
	{Method: http.MethodGet, Path: "/api/v1/plays", Role: RoleViewer},
	{Method: http.MethodPost, Path: "/api/v1/statements", Role: RoleViewer},
	{Method: http.MethodGet, Path: "/api/v1/invoices/", Prefix: true, Role: RoleViewer},
	{Path: "/api/", Prefix: true, Role: RoleOperator},
}

// BillingPolicy applies BillingRules.
func BillingPolicy(exempt ...string) Policy {
	return NewPolicy(BillingRules, exempt...)
}

// RequiredRole returns the role needed for method and path. ok is false for
// exempt or unguarded routes.
func (p Policy) RequiredRole(method, path string) (Role, bool) {
	if _, skip := p.exempt[path]; skip {
		return "", false
	}
	for _, rule := range p.rules {
		if rule.matches(method, path) {
			return rule.Role, true
		}
	}
	return "", false
}
