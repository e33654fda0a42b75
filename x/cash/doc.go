/*
Package cash keeps a wallet of coins for every address and moves coins
between wallets.

There is no logic in the coins, except that the balance of any coin may not go
below zero. The Controller is the token ledger consumed by the custody
extensions: every custody transfer of an escrow or an installment agreement is
a MoveCoins call.
*/
package cash
