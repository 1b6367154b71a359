package payouts

// Split divides a gross fee into the platform commission and the
// practitioner's net share. The commission is floored so that
// commission + net == gross holds exactly for every integer fee;
// the leftover sub-paise fraction always lands on the practitioner's side.
func Split(grossPaise int64, ratePct int) (commissionPaise, netPaise int64) {
	commissionPaise = grossPaise * int64(ratePct) / 100
	return commissionPaise, grossPaise - commissionPaise
}

// transferMode picks the provider rail for a net amount. IMPS settles
// instantly but is capped, so large payouts fall back to NEFT.
func transferMode(netPaise int64) string {
	if netPaise < impsLimitPaise {
		return "IMPS"
	}
	return "NEFT"
}
