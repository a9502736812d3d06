package loaders

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// EnvLoader populates exported struct fields tagged `env:"NAME"` from the process environment.
type EnvLoader struct {
	lookup func(string) (string, bool)
}

func NewEnvloader() *EnvLoader {
	return &EnvLoader{lookup: os.LookupEnv}
}

func (e *EnvLoader) Load(dest any) error {
	return loadTagged(dest, e.lookup)
}

// loadTagged walks the env tags of dest and asks lookup for each of them.
func loadTagged(dest any, lookup func(string) (string, bool)) error {
	val := reflect.ValueOf(dest)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("unable to load config into destination: destination must be a struct pointer")
	}
	val = val.Elem()
	typ := val.Type()

	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() { // skip all fields that cannot be set
			continue
		}

		tag, ok := fieldType.Tag.Lookup("env")
		if !ok {
			continue
		}

		value, ok := lookup(tag)
		if ok {
			if err := setEnvironmentVariable(field, value); err != nil {
				return fmt.Errorf("unable to load %s: %w", tag, err)
			}
		}
	}

	return nil
}

func setEnvironmentVariable(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		num, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			field.SetInt(num)
			return nil
		}
		// duration types (time.Duration and wrappers of it) accept "10s" style values
		if field.Kind() == reflect.Int64 {
			dur, durErr := time.ParseDuration(value)
			if durErr == nil {
				field.SetInt(int64(dur))
				return nil
			}
		}
		return err
	case reflect.Bool:
		boolean, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolean)
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			values := strings.Split(value, ",")
			for i := range values {
				values[i] = strings.TrimSpace(values[i])
			}
			field.Set(reflect.ValueOf(values).Convert(field.Type()))
		}
	}
	return nil
}
