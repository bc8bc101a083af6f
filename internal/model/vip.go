package model

import "time"

// VIPMembership records a customer's loyalty standing.  It is a
// read-only input to pricing: the booking factory consults the tier
// registry for the discount multiplier when an explicit tier is
// supplied with a booking request.  Renewal and expiry of memberships
// are managed outside this service.
//
// Fields:
//  Customer   – display identifier of the member.
//  Tier       – loyalty tier name (e.g. SILVER, GOLD, PLATINUM).
//  ValidFrom  – start of the membership validity window.
//  ValidUntil – end of the membership validity window.
//  Streak     – consecutive-visit counter maintained externally.
type VIPMembership struct {
    Customer   string    `json:"customer"`
    Tier       string    `json:"tier"`
    ValidFrom  time.Time `json:"valid_from"`
    ValidUntil time.Time `json:"valid_until"`
    Streak     uint32    `json:"streak"`
}
