package script

import (
	"strings"

	"github.com/d5/tengo/v2"

	"github.com/milk9111/spriteanimator/animator"
)

func animatorModule(a animator.Animator) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	// play(index, [flip_x, flip_y]) toggles the given flip axes.
	values["play"] = fn("play", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		index, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "index", Expected: "int", Found: args[0].TypeName()}
		}
		var opts []animator.PlayOption
		if len(args) >= 3 {
			fx, _ := tengo.ToBool(args[1])
			fy, _ := tengo.ToBool(args[2])
			opts = append(opts, animator.WithFlip(fx, fy))
		}
		return boolObject(a.PlayAnimation(index, opts...)), nil
	})

	values["play_at"] = fn("play_at", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		index, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "index", Expected: "int", Found: args[0].TypeName()}
		}
		counter, ok := tengo.ToInt64(args[1])
		if !ok || counter < 0 {
			return nil, tengo.ErrInvalidArgumentType{Name: "counter", Expected: "non-negative int", Found: args[1].TypeName()}
		}
		return boolObject(a.PlayAnimation(index, animator.WithFrameCounter(uint64(counter)))), nil
	})

	values["start"] = action("start", a.StartPlayback)
	values["pause"] = action("pause", a.PausePlayback)
	values["resume"] = action("resume", a.ResumePlayback)
	values["stop"] = action("stop", a.StopPlayback)

	values["state"] = fn("state", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: a.State().String()}, nil
	})
	values["running"] = fn("running", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(a.IsRunning()), nil
	})
	values["index"] = fn("index", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(a.CurrentAnimation())}, nil
	})
	values["counter"] = fn("counter", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(a.FrameCounter())}, nil
	})
	values["count"] = fn("count", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(a.AnimationCount())}, nil
	})

	values["flip_x"] = fn("flip_x", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(a.FlipX()), nil
	})
	values["flip_y"] = fn("flip_y", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(a.FlipY()), nil
	})
	values["set_flip_x"] = setter("set_flip_x", a.SetFlipX)
	values["set_flip_y"] = setter("set_flip_y", a.SetFlipY)

	values["speed"] = fn("speed", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: a.PlaybackSpeed()}, nil
	})
	values["set_speed"] = fn("set_speed", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		v, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "speed", Expected: "float", Found: args[0].TypeName()}
		}
		a.SetPlaybackSpeed(v)
		return tengo.UndefinedValue, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

func inputModule(in Input) *tengo.ImmutableMap {
	keys := make([]tengo.Object, 0, len(in.Keys))
	pressed := make(map[string]bool, len(in.Keys))
	for _, k := range in.Keys {
		keys = append(keys, &tengo.String{Value: k})
		pressed[strings.ToLower(k)] = true
	}
	events := make([]tengo.Object, 0, len(in.Events))
	for _, e := range in.Events {
		events = append(events, &tengo.String{Value: e})
	}

	values := map[string]tengo.Object{
		"clicked": boolObject(in.Clicked),
		"keys":    &tengo.ImmutableArray{Value: keys},
		"events":  &tengo.ImmutableArray{Value: events},
		"dt":      &tengo.Float{Value: in.DT.Seconds()},
	}
	values["pressed"] = fn("pressed", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		return boolObject(pressed[strings.ToLower(objectAsString(args[0]))]), nil
	})
	values["event"] = fn("event", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name := objectAsString(args[0])
		for _, e := range in.Events {
			if e == name {
				return tengo.TrueValue, nil
			}
		}
		return tengo.FalseValue, nil
	})
	return &tengo.ImmutableMap{Value: values}
}

func fn(name string, f tengo.CallableFunc) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: f}
}

func action(name string, f func()) *tengo.UserFunction {
	return fn(name, func(args ...tengo.Object) (tengo.Object, error) {
		f()
		return tengo.UndefinedValue, nil
	})
}

func setter(name string, f func(bool)) *tengo.UserFunction {
	return fn(name, func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		f(!args[0].IsFalsy())
		return tengo.UndefinedValue, nil
	})
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
