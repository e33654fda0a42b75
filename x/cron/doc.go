/*
Package cron executes messages at a given ledger time.

A message is scheduled together with the conditions it is executed with. At
the beginning of every block the Ticker delivers all messages that are due,
oldest first, each in its own savepoint. The outcome of every task is stored
as a TaskResult, so a failed task leaves a trace but no other change.
*/
package cron
