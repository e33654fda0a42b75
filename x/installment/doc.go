/*
Package installment implements agreements paid by a buyer in several
installments and held in custody until the whole amount is collected.

An agreement is proposed by the buyer and must be accepted by the seller
before any payment is made. Every payment moves funds of the buyer into a
custody account derived from the agreement id and is recorded in the payment
history. Once the paid amount reaches the total, either party can finalize
the agreement, which pays the total to the seller. The seller can instead
cancel an accepted agreement, which refunds everything paid so far.

	Proposed -> Accepted -> Finalized
	Proposed -> Accepted -> Canceled

Payments are only accepted before the deadline. The arbitrator is recorded
but has no authority.
*/
package installment
