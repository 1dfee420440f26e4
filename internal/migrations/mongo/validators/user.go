package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"student_id",
			"is_admin",
			"is_banned",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},

			"is_admin": bson.M{
				"bsonType": "bool",
			},

			"is_banned": bson.M{
				"bsonType": "bool",
			},

			"last_login": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
