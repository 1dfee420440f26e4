package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"room_id",
			"student_id",
			"booking_date",
			"start_time",
			"end_time",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},

			"booking_date": bson.M{
				"bsonType": "string",
				"pattern":  "^[0-9]{4}-[0-9]{2}-[0-9]{2}$",
			},

			// Packed HHMM encoding: 1330 means 13:30.
			"start_time": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  2359,
			},

			"end_time": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  2359,
			},

			"team_members": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"properties": bson.M{
						"name": bson.M{
							"bsonType": "string",
						},
						"student_id": bson.M{
							"bsonType": "string",
						},
						"phone": bson.M{
							"bsonType": "string",
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
