package utils

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"

	"github.com/speps/go-hashids/v2"
)

func PanicTrace(err interface{}) string {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%v\n", err)
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fmt.Fprintf(buf, "%s:%d (0x%x)\n", file, line, pc)
	}
	return buf.String()
}

func newHashID(salt string) (*hashids.HashID, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	return hashids.NewWithData(hd)
}

// GenHashID 将自增ID编码为对外展示的短码
func GenHashID(salt string, id uint64) (string, error) {
	h, err := newHashID(salt)
	if err != nil {
		return "", err
	}
	return h.EncodeInt64([]int64{int64(id)})
}

// DecodeHashID GenHashID 的逆操作
func DecodeHashID(salt string, code string) (uint64, error) {
	h, err := newHashID(salt)
	if err != nil {
		return 0, err
	}
	ids, err := h.DecodeInt64WithError(code)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 || ids[0] <= 0 {
		return 0, errors.New("invalid hash id")
	}
	return uint64(ids[0]), nil
}
