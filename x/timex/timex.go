package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// CivilFromUnix splits unix seconds into UTC calendar fields.
func CivilFromUnix(sec int64) (year, month, day, hour, min, s int) {
	t := time.Unix(sec, 0).UTC()
	return t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second()
}

// UnixFromCivil is the inverse of CivilFromUnix.
func UnixFromCivil(year, month, day, hour, min, sec int) int64 {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC).Unix()
}

// ISO8601 renders UTC calendar fields as YYYY-MM-DDTHH:MM:SSZ. Built by hand
// to keep MCU binaries free of the fmt machinery.
func ISO8601(year, month, day, hour, min, sec int) string {
	var b [20]byte
	pad4(b[0:4], year)
	b[4] = '-'
	pad2(b[5:7], month)
	b[7] = '-'
	pad2(b[8:10], day)
	b[10] = 'T'
	pad2(b[11:13], hour)
	b[13] = ':'
	pad2(b[14:16], min)
	b[16] = ':'
	pad2(b[17:19], sec)
	b[19] = 'Z'
	return string(b[:])
}

func pad2(dst []byte, v int) {
	dst[0] = byte('0' + (v/10)%10)
	dst[1] = byte('0' + v%10)
}

func pad4(dst []byte, v int) {
	dst[0] = byte('0' + (v/1000)%10)
	dst[1] = byte('0' + (v/100)%10)
	dst[2] = byte('0' + (v/10)%10)
	dst[3] = byte('0' + v%10)
}
