// Package alerts evaluates threshold rules against each successful
// snapshot and delivers webhook notifications when rules fire or resolve.
//
// Rules are simple "field op value" expressions over one department
// (total_score, category:<label>) or over the whole snapshot (overall).
// A cooldown per rule and department suppresses repeat fires; resolved
// alerts are kept for a short history window so the API can show them.
package alerts
