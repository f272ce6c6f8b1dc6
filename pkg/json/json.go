package json

import (
	"bytes"
	"io"

	jsoniter "github.com/json-iterator/go"
)

func Marshal(input interface{}) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(input)
}

func Unmarshal(input []byte, data interface{}) error {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(input, data)
}

// MarshalToString encodes input with map keys sorted, so equal values always
// produce the same text and can be compared as blobs in SQL.
func MarshalToString(input interface{}) (string, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(input)
}

// UnmarshalNumber 当data没有指定具体数据结构时，json默认会将uint64数字转化为浮点数，这可能
// 导致精度丢失，使用该方法可以防止该问题出现
func UnmarshalNumber(input []byte, data interface{}) error {
	return DecodeUseNumber(bytes.NewReader(input), data)
}

// DecodeUseNumber keeps numbers as json.Number when decoding into interface{}
func DecodeUseNumber(reader io.Reader, data interface{}) error {
	d := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(reader)
	d.UseNumber()
	return d.Decode(data)
}

// RawMessage delays decoding of a part of a document
type RawMessage = jsoniter.RawMessage
