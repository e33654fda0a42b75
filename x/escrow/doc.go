/*
Package escrow holds the funds of a buyer in custody until they are released
to the seller.

An escrow is created Active and locks its amount in a custody account derived
from its id. The funds are released to the seller once the release time has
passed or the buyer confirmed the receipt. Before that the buyer may raise a
dispute, which only the escrow admin can resolve by refunding the buyer.

	Active   -> Released
	Active   -> Disputed -> Refunded

Released and Refunded are terminal. Records are never deleted.
*/
package escrow
