package models

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// InsertResult mirrors the acknowledgment document clients of this API
// expect after an insert.
type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

// UpdateResult mirrors an update acknowledgment. A zero MatchedCount is
// still a successful response.
type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// DeleteResult mirrors a delete acknowledgment.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func NewInsertResult(res *mongo.InsertOneResult) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: res.InsertedID}
}

func NewUpdateResult(res *mongo.UpdateResult) UpdateResult {
	return UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}

func NewDeleteResult(res *mongo.DeleteResult) DeleteResult {
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}
