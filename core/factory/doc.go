// Package factory provides the generic registry that turns configuration
// entries into modules. An entry names a type and carries raw settings;
// the factory registered for that type decodes the settings and returns
// the implementation.
//
//	reg := factory.NewRegistry[metrics.SessionSink]()
//	_ = reg.Register("influx", func(conf map[string]any) (metrics.SessionSink, error) {
//	    var c struct{ URL string `json:"url"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newInfluxSink(c.URL), nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "influx", Conf: map[string]any{"url": "http://influx:8086"}})
package factory
