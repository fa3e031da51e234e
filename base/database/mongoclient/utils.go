package mongoclient

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
)

// ToFilter turns an options struct into an equality filter. Nil pointers and zero values are
// unset filters, a set pointer is matched by the value it points to, and `bson:"-"` fields
// such as pagination are skipped.
func ToFilter(opts interface{}) (bson.M, error) {
	val := reflect.Indirect(reflect.ValueOf(opts))
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("filter source must be a struct, got %s", val.Kind())
	}

	filter := bson.M{}
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		sf, field := typ.Field(i), val.Field(i)
		if sf.PkgPath != "" || field.IsZero() {
			continue
		}
		tag, err := bsoncodec.DefaultStructTagParser(sf)
		if err != nil {
			return nil, err
		}
		if tag.Skip {
			continue
		}
		filter[tag.Name] = reflect.Indirect(field).Interface()
	}
	return filter, nil
}
