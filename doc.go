// Package twreport values a personal Taiwanese equities portfolio and
// produces its daily report. It is local-first: the holdings live in a small
// CSV file, the market data is fetched fresh on every run, and nothing is
// stored beyond the generated documents.
//
// The core functionalities include:
//   - Ledger Management: Holding positions as board lots with a running
//     weighted-average cost per share, updated trade by trade.
//   - Price Resolution: Finding each symbol's latest closing price, listed
//     market first (monthly daily series), over-the-counter snapshot second.
//     A symbol neither market knows is reported as such, never as zero.
//   - Aggregation: Market value, cost basis, unrealized and single-day P&L
//     per position and in total, with exact decimal arithmetic throughout.
//   - News Enrichment: Recent headlines per position, purely decorative.
//
// This package serves as the foundational logic for the `twr` command-line
// tool; the provider subpackages implement its source interfaces.
package twreport
