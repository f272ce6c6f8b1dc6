package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"

	"github.com/crochee/actionstore/pkg/storage"
)

type option struct {
	user     string
	password string
	ip       string
	port     string
	database string
	charset  string

	timeout      time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	storage      []storage.Option
}

type Option func(*option)

func WithUser(user string) Option {
	return func(o *option) {
		o.user = user
	}
}

func WithPassword(password string) Option {
	return func(o *option) {
		o.password = password
	}
}

func WithIP(ip string) Option {
	return func(o *option) {
		o.ip = ip
	}
}

func WithPort(port string) Option {
	return func(o *option) {
		o.port = port
	}
}

func WithDatabase(db string) Option {
	return func(o *option) {
		o.database = db
	}
}

func WithCharset(charset string) Option {
	return func(o *option) {
		o.charset = charset
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *option) {
		o.timeout = timeout
	}
}

func WithReadTimeout(readTimeout time.Duration) Option {
	return func(o *option) {
		o.readTimeout = readTimeout
	}
}

func WithWriteTimeout(writeTimeout time.Duration) Option {
	return func(o *option) {
		o.writeTimeout = writeTimeout
	}
}

// WithStorage passes pool and logging options through to storage.Open
func WithStorage(opts ...storage.Option) Option {
	return func(o *option) {
		o.storage = append(o.storage, opts...)
	}
}

// New opens the MySQL primary backend
func New(ctx context.Context, opts ...Option) (*storage.DB, error) {
	o := &option{
		ip:      "127.0.0.1",
		port:    "3306",
		charset: "utf8mb4",
	}
	for _, f := range opts {
		f(o)
	}
	return storage.Open(ctx, mysql.New(mysql.Config{
		DSN: Dsn(o.user, o.password, o.ip, o.port, o.database, o.charset,
			o.timeout, o.readTimeout, o.writeTimeout),
		DefaultStringSize: 191,
	}), o.storage...)
}

// Dsn builds a go-sql-driver DSN. clientFoundRows makes UPDATE report matched
// rows, so rewriting a row with identical values is not mistaken for a miss.
func Dsn(user, password, ip, port, database, charset string, timeout, readTimeout, writeTimeout time.Duration) string {
	uri := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=%t&loc=%s&clientFoundRows=%t",
		user, password, ip, port, database, charset, true, "UTC", true)
	if timeout != 0 {
		uri += fmt.Sprintf("&timeout=%s", timeout)
	}
	if readTimeout != 0 {
		uri += fmt.Sprintf("&readTimeout=%s", readTimeout)
	}
	if writeTimeout != 0 {
		uri += fmt.Sprintf("&writeTimeout=%s", writeTimeout)
	}
	return uri
}
