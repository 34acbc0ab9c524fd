package ncio

import (
	"fmt"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// attrString reads a string-valued attribute. Attribute values come
// back as string or, for some writers, a single-element string slice.
func attrString(attrs api.AttributeMap, key string) (string, bool) {
	raw, has := attrs.Get(key)
	if !has {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case []string:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

// toFloat64 converts any numeric scalar.
func toFloat64(raw any) (float64, error) {
	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Slice, reflect.Array:
		// Single-element attribute vectors.
		if v.Len() == 1 {
			return toFloat64(v.Index(0).Interface())
		}
	}
	return 0, fmt.Errorf("not a numeric scalar: %T", raw)
}

// toFloat64Slice converts a 1-D numeric coordinate of any element type.
func toFloat64Slice(raw any) ([]float64, error) {
	v := reflect.ValueOf(raw)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("expected a 1-D coordinate, got %T", raw)
	}
	out := make([]float64, v.Len())
	for i := range out {
		f, err := toFloat64(v.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// toBoundsPairs converts an (n, 2) bounds array of any element type.
func toBoundsPairs(raw any) ([][2]float64, error) {
	v := reflect.ValueOf(raw)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("expected an (n, 2) array, got %T", raw)
	}
	out := make([][2]float64, v.Len())
	for i := 0; i < v.Len(); i++ {
		row := v.Index(i)
		if row.Kind() == reflect.Interface {
			row = row.Elem()
		}
		if (row.Kind() != reflect.Slice && row.Kind() != reflect.Array) || row.Len() != 2 {
			return nil, fmt.Errorf("row %d is not a pair", i)
		}
		for j := 0; j < 2; j++ {
			f, err := toFloat64(row.Index(j).Interface())
			if err != nil {
				return nil, err
			}
			out[i][j] = f
		}
	}
	return out, nil
}

// variableShape determines the variable's dimension sizes: the outer
// length from the getter, the inner lengths by inspecting one record.
func variableShape(vg api.VarGetter) ([]int, error) {
	n := vg.Len()
	if n == 0 {
		return []int{0}, nil
	}
	slice, err := vg.GetSlice(0, 1)
	if err != nil {
		return nil, err
	}

	shape := []int{int(n)}
	v := reflect.ValueOf(slice)
	if v.Kind() != reflect.Slice || v.Len() == 0 {
		return shape, nil
	}
	v = v.Index(0)
	for {
		if v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return shape, nil
		}
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			return shape, nil
		}
		v = v.Index(0)
	}
}

// elementAt walks a nested slice read with GetSlice(i, i+1) down to one
// scalar: the leading axis has length one, the rest follow index.
func elementAt(slice any, index []int) (float64, error) {
	v := reflect.ValueOf(slice)
	if v.Kind() == reflect.Slice {
		if v.Len() == 0 {
			return 0, fmt.Errorf("empty slice")
		}
		v = v.Index(0)
	}
	for _, idx := range index {
		if v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return 0, fmt.Errorf("index %v exceeds the variable's rank", index)
		}
		if idx < 0 || idx >= v.Len() {
			return 0, fmt.Errorf("index %v out of bounds", index)
		}
		v = v.Index(idx)
	}
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return toFloat64(v.Interface())
}
