package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ordering engine. Every entity that orders among siblings (tasks within a
// column+parent scope, columns within a board) stores a dense zero-based
// "order" integer; the functions here keep that sequence gap-free and
// duplicate-free across inserts, moves and deletes.
//
// The read-shift-write sequence is not isolated: two concurrent movers in
// the same scope can interleave and leave a transiently non-dense sequence
// (last writer wins on the moved item). A per-scope mutex or a scope-level
// version token would close that window; callers accept it for now.

// moveShift computes the sibling range affected by moving an item from
// oldOrder to newOrder within one scope, and the increment to apply to it.
// The range is inclusive on both ends. Siblings outside [low, high] keep
// their order; the moved item itself is set to newOrder by the caller.
func moveShift(oldOrder, newOrder int) (low, high, delta int) {
	if newOrder > oldOrder {
		// Moving down: everything between slides up one slot.
		return oldOrder + 1, newOrder, -1
	}
	// Moving up: everything between slides down one slot.
	return newOrder, oldOrder - 1, 1
}

// nextOrder returns the append position for a new item in the scope:
// max existing order + 1, or 0 for an empty scope.
func nextOrder(ctx context.Context, coll *mongo.Collection, scope bson.M) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "order", Value: -1}}).
		SetProjection(bson.M{"order": 1})

	var top struct {
		Order int `bson:"order"`
	}
	err := coll.FindOne(ctx, scope, opts).Decode(&top)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return top.Order + 1, nil
}

// reorderWithin shifts the siblings between an item's old and new position
// so the caller can then store newOrder on the item itself.
func reorderWithin(ctx context.Context, coll *mongo.Collection, scope bson.M, oldOrder, newOrder int) error {
	if oldOrder == newOrder {
		return nil
	}
	low, high, delta := moveShift(oldOrder, newOrder)

	filter := bson.M{"order": bson.M{"$gte": low, "$lte": high}}
	for k, v := range scope {
		filter[k] = v
	}
	_, err := coll.UpdateMany(ctx, filter, bson.M{"$inc": bson.M{"order": delta}})
	return err
}

// openSlot makes room at index in the scope by shifting every sibling at or
// past it one slot down. Used when an item moves into the scope at an
// explicit position rather than being appended.
func openSlot(ctx context.Context, coll *mongo.Collection, scope bson.M, index int) error {
	filter := bson.M{"order": bson.M{"$gte": index}}
	for k, v := range scope {
		filter[k] = v
	}
	_, err := coll.UpdateMany(ctx, filter, bson.M{"$inc": bson.M{"order": 1}})
	return err
}

// closeGap re-densifies the scope after an item at removedOrder left it,
// either by deletion or by moving to another scope.
func closeGap(ctx context.Context, coll *mongo.Collection, scope bson.M, removedOrder int) error {
	filter := bson.M{"order": bson.M{"$gt": removedOrder}}
	for k, v := range scope {
		filter[k] = v
	}
	_, err := coll.UpdateMany(ctx, filter, bson.M{"$inc": bson.M{"order": -1}})
	return err
}
