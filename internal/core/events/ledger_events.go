package events

const (
	EventRecognitionCreated = "recognition.created"
	EventPointsAdjusted     = "points.adjusted"
)

func NewRecognitionCreatedEvent(transactionID, senderID, points int64, transactionType string) Event {
	return NewBaseEvent(EventRecognitionCreated, map[string]interface{}{
		"transaction_id":   transactionID,
		"sender_id":        senderID,
		"points":           points,
		"transaction_type": transactionType,
	})
}

func NewPointsAdjustedEvent(transactionID, adminID, targetUserID, delta int64) Event {
	return NewBaseEvent(EventPointsAdjusted, map[string]interface{}{
		"transaction_id": transactionID,
		"admin_id":       adminID,
		"target_user_id": targetUserID,
		"delta":          delta,
	})
}
