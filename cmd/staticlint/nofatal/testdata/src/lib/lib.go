package lib

import (
	"errors"
	"log"
	"os"
)

func Process(ok bool) error {
	if !ok {
		os.Exit(1) // want `вызов os.Exit в библиотечном пакете запрещён`
	}
	if ok {
		log.Fatalf("bad row %d", 1) // want `вызов log.Fatalf в библиотечном пакете запрещён`
	}
	panic("unreachable") // want `panic в библиотечном пакете запрещён`
}

func Skip() error {
	log.Printf("row skipped")
	return errors.New("skip")
}
