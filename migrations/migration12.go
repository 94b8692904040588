package migrations

const receiptKey = "receipt"

// Migration12 replaces the optional receipt of each transaction with an
// explicit status: Confirmed when the receipt status is 1, Failed for any
// other receipt and Pending when there is no receipt.
func Migration12(doc Document) Document {
	out, ok := mapTransactions(doc, func(_, _ string, tx map[string]interface{}) map[string]interface{} {
		status := "Pending"
		if receipt, found := tx[receiptKey]; found && receipt != nil {
			status = "Failed"
			if r, ok := receipt.(map[string]interface{}); ok && isOne(r["status"]) {
				status = "Confirmed"
			}
		}
		delete(tx, receiptKey)
		tx["status"] = status
		return tx
	})
	if !ok {
		return doc
	}
	return withVersion(out, 12)
}

func isOne(v interface{}) bool {
	switch n := v.(type) {
	case float64:
		return n == 1
	case int:
		return n == 1
	default:
		return false
	}
}
