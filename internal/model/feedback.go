package model

import "time"

// FeedbackEntry is an append-only review left by a customer after a
// visit.  Feedback is not part of the booking/payment kernel; entries
// are only ever inserted and listed.
//
// Fields:
//  ID        – primary key identifier.
//  Customer  – display identifier of the reviewer.
//  Rating    – score from 1 to 5.
//  Review    – free-text comment, may be empty.
//  CreatedAt – insertion timestamp.
type FeedbackEntry struct {
    ID        uint64    `json:"id"`
    Customer  string    `json:"customer"`
    Rating    uint8     `json:"rating"`
    Review    string    `json:"review"`
    CreatedAt time.Time `json:"created_at"`
}
