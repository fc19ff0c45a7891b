// Package models defines the core domain models for PaisaTrack.
//
// # Model Groups
//
// Debt ledger:
//   - BillSplit: a shared expense divided among participants
//   - Share: one participant's owed portion of a split
//   - SplitItem: a line item on a by-item split
//   - Settlement: a recorded payment that clears debt between two users
//
// Forecasting:
//   - TransactionRecord: one income or expense event, the source of truth
//     for every forecast computation
//   - Budget: a per-user (optionally per-category) monthly spending limit
//
// Accounts:
//   - User: a registered account, referenced by splits and transactions
//   - Group: a reusable participant list that scopes debt aggregation
//
// # Design Principles
//
//  1. Closed enums for split methods and transaction types: invalid values
//     are rejected at construction, not discovered at query time.
//  2. Avoid circular references: models reference each other by ID strings.
//  3. Derived values (debt summaries, forecasts, anomaly reports) are not
//     persisted models; they live next to the engines that compute them.
package models
