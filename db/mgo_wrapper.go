/*
 *  Copyright 2026 CivicFund
 *  This file is part of the quadfund-backend library.
 *
 *  The quadfund-backend library is free software: you can redistribute it
 *  and/or modify it under the terms of the GNU Lesser General Public License
 *  as published by the Free Software Foundation, either version 3 of the
 *  License, or (at your option) any later version.
 *
 *  The quadfund-backend library is distributed in the hope that it will be
 *  useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 *  GNU Lesser General Public License for more details.
 *
 *  You should have received a copy of the GNU Lesser General Public License
 *  along with the quadfund-backend library. If not, see
 *  <http://www.gnu.org/licenses/>.
 */
// Package db
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QfMgo struct {
	DB  *mongo.Database
	col *mongo.Collection
}

func (w *QfMgo) Database(db *mongo.Database) {
	w.DB = db
}

func (w *QfMgo) C(name string) *QfMgo {
	w.col = w.DB.Collection(name)
	return w
}

func (w *QfMgo) EnsureIndex(model []mongo.IndexModel) error {
	var err error
	opts := options.CreateIndexes().SetMaxTime(5 * time.Second)
	if len(model) == 1 {
		_, err = w.col.Indexes().CreateOne(context.Background(), model[0], opts)
	} else if len(model) > 1 {
		_, err = w.col.Indexes().CreateMany(context.Background(), model, opts)
	}
	return err
}

func (w *QfMgo) Update(filter interface{}, update interface{},
	opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return w.col.UpdateOne(context.Background(), filter, update, opts...)
}

func (w *QfMgo) Upsert(filter interface{}, update interface{},
	opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	opts = append(opts, options.Update().SetUpsert(true))
	return w.col.UpdateOne(context.Background(), filter, bson.M{"$set": update}, opts...)
}

func (w *QfMgo) Find(filter interface{},
	opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return w.col.Find(context.Background(), filter, opts...)
}

func (w *QfMgo) FindOne(filter interface{},
	opts ...*options.FindOneOptions) *mongo.SingleResult {
	return w.col.FindOne(context.Background(), filter, opts...)
}

func (w *QfMgo) FindOneAndUpdate(filter interface{}, update interface{},
	opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	return w.col.FindOneAndUpdate(context.Background(), filter, update, opts...)
}

func (w *QfMgo) Insert(document interface{},
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return w.col.InsertOne(context.Background(), document, opts...)
}

func (w *QfMgo) Count(filter interface{},
	opts ...*options.CountOptions) (int64, error) {
	return w.col.CountDocuments(context.Background(), filter, opts...)
}

func (w *QfMgo) DropDatabase(ctx context.Context) error {
	if err := w.DB.Drop(ctx); err != nil {
		return err
	}
	return nil
}
