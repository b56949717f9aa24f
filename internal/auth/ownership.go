// ABOUTME: Ownership rule binding a resource to its creating principal
// ABOUTME: Run after resource lookup, before any mutation or content return

package auth

// CheckOwnership reports whether the principal owns the resource with the
// given owner ID. Both sides are compared as canonical ID strings.
func CheckOwnership(ownerID string, principal *Principal) bool {
	if principal == nil || ownerID == "" {
		return false
	}
	return ownerID == principal.ID
}
