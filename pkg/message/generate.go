package message

//go:generate go run ../../cmd/bp-msggen -input messages.yaml -output messages_gen.go
